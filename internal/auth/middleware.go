package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/config"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
)

const (
	contextKeyUserID = "auth_user_id"
	contextKeyRole   = "auth_role"
)

// DefaultUserID is used when authentication is disabled.
const DefaultUserID = uint(0)

// UserLookup resolves a session's user.
type UserLookup interface {
	GetUserByID(id uint) (*entities.User, error)
}

// Middleware authenticates requests from the session cookie.
type Middleware struct {
	users          UserLookup
	sessionManager *SessionManager
	mode           config.AuthMode
	publicPrefixes []string
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(users UserLookup, sessionManager *SessionManager, cfg config.Auth) *Middleware {
	return &Middleware{
		users:          users,
		sessionManager: sessionManager,
		mode:           cfg.Mode,
		publicPrefixes: []string{"/health", "/login", "/setup", "/metrics", "/uploads/", "/favicon.ico"},
	}
}

// Handler returns the gin middleware. In "none" mode every request acts as an administrator.
func (m *Middleware) Handler() gin.HandlerFunc {
	if m.mode == config.AuthModeNone {
		return func(c *gin.Context) {
			c.Set(contextKeyUserID, DefaultUserID)
			c.Set(contextKeyRole, entities.UserRoleAdmin)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if user := m.sessionUser(c); user != nil {
			c.Set(contextKeyUserID, user.ID)
			c.Set(contextKeyRole, user.Role)
			c.Next()
			return
		}

		if m.isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		if isAPIRequest(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

func (m *Middleware) sessionUser(c *gin.Context) *entities.User {
	if m.sessionManager == nil {
		return nil
	}
	userID := m.sessionManager.GetUserID(c.Request)
	if userID == 0 {
		return nil
	}
	user, err := m.users.GetUserByID(userID)
	if err != nil {
		return nil
	}
	return user
}

func (m *Middleware) isPublicPath(path string) bool {
	for _, prefix := range m.publicPrefixes {
		if path == prefix || (strings.HasSuffix(prefix, "/") && strings.HasPrefix(path, prefix)) {
			return true
		}
	}
	return false
}

func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}

// RequireCapability rejects requests whose role lacks capability.
func RequireCapability(capability entities.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetUserRole(c).Can(capability) {
			if isAPIRequest(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
				return
			}
			c.Data(http.StatusForbidden, "text/html; charset=utf-8",
				[]byte("<h1>Forbidden</h1><p>You do not have sufficient permissions to access this page.</p>"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user's ID, or DefaultUserID.
func GetUserID(c *gin.Context) uint {
	if id, ok := c.Get(contextKeyUserID); ok {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return DefaultUserID
}

// GetUserRole returns the authenticated user's role, or "" for anonymous requests.
func GetUserRole(c *gin.Context) entities.UserRole {
	if r, ok := c.Get(contextKeyRole); ok {
		if role, ok := r.(entities.UserRole); ok {
			return role
		}
	}
	return ""
}
