package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/config"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
)

// browser keeps cookies between requests to the test router.
type browser struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	b.router.ServeHTTP(rr, req)
	for _, c := range rr.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rr
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// token scrapes the anti-forgery token from a rendered page.
func (b *browser) token(path string) string {
	rr := b.get(path)
	match := tokenPattern.FindStringSubmatch(rr.Body.String())
	require.Len(b.t, match, 2, "no csrf token on %s", path)
	return match[1]
}

func setupTestRouter(t *testing.T) (*browser, *Service) {
	t.Helper()

	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	cfg := config.Auth{
		Mode:            config.AuthModeLocal,
		SessionLifetime: time.Hour,
		BcryptCost:      4,
		SecureCookies:   false,
	}
	svc := NewService(db, cfg)
	sm, err := NewSessionManager(sqlDB, cfg)
	require.NoError(t, err)

	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.Use(sm.LoadAndSave())
	router.Use(NewMiddleware(svc, sm, cfg).Handler())
	NewController(svc, sm).RegisterRoutes(router)
	router.GET("/tools/bulk-importer", RequireCapability(entities.CapabilityManageOptions), func(c *gin.Context) {
		c.String(http.StatusOK, "importer for user %d", GetUserID(c))
	})
	router.GET("/api/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return &browser{t: t, router: router, cookies: map[string]*http.Cookie{}}, svc
}

func TestIntegration_ProtectedRoutes(t *testing.T) {
	b, _ := setupTestRouter(t)

	rr := b.get("/tools/bulk-importer")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login?next=%2Ftools%2Fbulk-importer", rr.Header().Get("Location"))

	rr = b.get("/api/products")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestIntegration_SetupFlow(t *testing.T) {
	b, svc := setupTestRouter(t)

	rr := b.get("/login")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/setup", rr.Header().Get("Location"))

	token := b.token("/setup")
	rr = b.post("/setup", url.Values{
		CSRFFieldName:      {token},
		"username":         {"admin"},
		"password":         {testPassword},
		"confirm_password": {testPassword},
	})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/tools/bulk-importer", rr.Header().Get("Location"))

	has, err := svc.HasUsers()
	require.NoError(t, err)
	assert.True(t, has)

	rr = b.get("/tools/bulk-importer")
	assert.Equal(t, http.StatusOK, rr.Code)

	// Setup is closed once an administrator exists.
	rr = b.get("/setup")
	assert.Equal(t, http.StatusFound, rr.Code)
}

func TestIntegration_SetupPasswordMismatch(t *testing.T) {
	b, svc := setupTestRouter(t)

	token := b.token("/setup")
	rr := b.post("/setup", url.Values{
		CSRFFieldName:      {token},
		"username":         {"admin"},
		"password":         {testPassword},
		"confirm_password": {testPassword + "x"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Passwords do not match")

	has, _ := svc.HasUsers()
	assert.False(t, has)
}

func TestIntegration_LoginLogoutFlow(t *testing.T) {
	b, svc := setupTestRouter(t)
	_, err := svc.CreateUser("admin", testPassword, entities.UserRoleAdmin)
	require.NoError(t, err)

	token := b.token("/login?next=/tools/bulk-importer")
	rr := b.post("/login", url.Values{
		CSRFFieldName: {token},
		"username":    {"admin"},
		"password":    {"wrong-password-123"},
		"next":        {"/tools/bulk-importer"},
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid username or password")

	rr = b.post("/login", url.Values{
		CSRFFieldName: {token},
		"username":    {"admin"},
		"password":    {testPassword},
		"next":        {"/tools/bulk-importer"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/tools/bulk-importer", rr.Header().Get("Location"))
	assert.Contains(t, b.cookies, "catalog_session")

	rr = b.get("/tools/bulk-importer")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "importer for user 1")

	rr = b.post("/logout", url.Values{CSRFFieldName: {token}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	rr = b.get("/tools/bulk-importer")
	assert.Equal(t, http.StatusFound, rr.Code)
}

func TestIntegration_ViewerLacksManageOptions(t *testing.T) {
	b, svc := setupTestRouter(t)
	_, err := svc.CreateUser("admin", testPassword, entities.UserRoleAdmin)
	require.NoError(t, err)
	_, err = svc.CreateUser("viewer", testPassword, entities.UserRoleViewer)
	require.NoError(t, err)

	token := b.token("/login")
	rr := b.post("/login", url.Values{CSRFFieldName: {token}, "username": {"viewer"}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	rr = b.get("/tools/bulk-importer")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestIntegration_LoginWithoutCSRFToken(t *testing.T) {
	b, svc := setupTestRouter(t)
	_, err := svc.CreateUser("admin", testPassword, entities.UserRoleAdmin)
	require.NoError(t, err)

	rr := b.post("/login", url.Values{"username": {"admin"}, "password": {testPassword}})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.NotContains(t, b.cookies, "catalog_session")
}
