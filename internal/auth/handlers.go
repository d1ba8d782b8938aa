package auth

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// isLocalPath reports whether path is safe to redirect to after login.
func isLocalPath(path string) bool {
	return strings.HasPrefix(path, "/") &&
		!strings.HasPrefix(path, "//") &&
		!strings.Contains(path, "://") &&
		!strings.Contains(path, `\`)
}

func redirectTarget(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/tools/bulk-importer"
}

// Controller serves login, logout and first-run setup.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
	setupMu        sync.Mutex
}

// NewController creates a new authentication controller.
func NewController(service *Service, sessionManager *SessionManager) *Controller {
	return &Controller{service: service, sessionManager: sessionManager}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *Controller) RegisterRoutes(router gin.IRoutes) {
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)
	router.GET("/setup", ac.SetupPage)
	router.POST("/setup", ac.Setup)
}

// LoginPage renders the login form.
func (ac *Controller) LoginPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, redirectTarget(c.Query("next")))
		return
	}

	if hasUsers, _ := ac.service.HasUsers(); !hasUsers {
		c.Redirect(http.StatusFound, "/setup")
		return
	}

	ac.render(c, http.StatusOK, "login.html", gin.H{
		"Next": redirectTarget(c.Query("next")),
	})
}

// Login handles the login form submission.
func (ac *Controller) Login(c *gin.Context) {
	username := c.PostForm("username")
	next := redirectTarget(c.PostForm("next"))

	user, err := ac.service.Authenticate(username, c.PostForm("password"))
	if err != nil {
		msg := "Invalid username or password"
		if errors.Is(err, ErrAccountLocked) {
			msg = "Account is locked. Please try again later."
		}
		zap.L().Info("login failed", zap.String("username", username), zap.String("ip", c.ClientIP()), zap.Error(err))
		ac.render(c, http.StatusUnauthorized, "login.html", gin.H{
			"Next":     next,
			"Username": username,
			"Error":    msg,
		})
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		zap.L().Error("failed to create session", zap.Uint("user_id", user.ID), zap.Error(err))
		ac.render(c, http.StatusInternalServerError, "login.html", gin.H{
			"Next":     next,
			"Username": username,
			"Error":    "Failed to create session",
		})
		return
	}

	c.Redirect(http.StatusSeeOther, next)
}

// Logout destroys the session.
func (ac *Controller) Logout(c *gin.Context) {
	_ = ac.sessionManager.DestroySession(c.Request)
	c.Redirect(http.StatusSeeOther, "/login")
}

// SetupPage renders the first administrator form while no users exist.
func (ac *Controller) SetupPage(c *gin.Context) {
	if hasUsers, _ := ac.service.HasUsers(); hasUsers {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	ac.render(c, http.StatusOK, "setup.html", gin.H{})
}

// Setup creates the first administrator and logs them in.
func (ac *Controller) Setup(c *gin.Context) {
	ac.setupMu.Lock()
	defer ac.setupMu.Unlock()

	hasUsers, err := ac.service.HasUsers()
	if err != nil {
		ac.render(c, http.StatusInternalServerError, "setup.html", gin.H{"Error": "Database error. Please try again."})
		return
	}
	if hasUsers {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")
	if password != c.PostForm("confirm_password") {
		ac.render(c, http.StatusBadRequest, "setup.html", gin.H{"Username": username, "Error": "Passwords do not match"})
		return
	}

	user, err := ac.service.CreateUser(username, password, entities.UserRoleAdmin)
	if err != nil {
		msg := "Failed to create user"
		switch {
		case errors.Is(err, ErrPasswordTooShort), errors.Is(err, ErrPasswordTooLong),
			errors.Is(err, ErrUsernameRequired), errors.Is(err, ErrUsernameInvalid),
			errors.Is(err, ErrPasswordRequired):
			msg = err.Error()
		case errors.Is(err, ErrUserExists):
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		ac.render(c, http.StatusBadRequest, "setup.html", gin.H{"Username": username, "Error": msg})
		return
	}

	_ = ac.sessionManager.CreateSession(c.Request, user)
	c.Redirect(http.StatusSeeOther, "/tools/bulk-importer")
}

func (ac *Controller) render(c *gin.Context, status int, name string, data gin.H) {
	data["CSRFField"] = CSRFTokenField(c)
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(c.Writer, name, data); err != nil {
		zap.L().Error("failed to render page", zap.String("template", name), zap.Error(err))
	}
}
