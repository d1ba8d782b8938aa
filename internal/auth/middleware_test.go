package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/config"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
)

func TestMiddleware_NoAuthModeActsAsAdmin(t *testing.T) {
	m := NewMiddleware(nil, nil, config.Auth{Mode: config.AuthModeNone})

	router := gin.New()
	router.Use(m.Handler())
	router.GET("/tools/bulk-importer", RequireCapability(entities.CapabilityManageOptions), func(c *gin.Context) {
		assert.Equal(t, DefaultUserID, GetUserID(c))
		assert.Equal(t, entities.UserRoleAdmin, GetUserRole(c))
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tools/bulk-importer", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireCapability(t *testing.T) {
	tests := []struct {
		role   entities.UserRole
		accept string
		want   int
	}{
		{entities.UserRoleAdmin, "", http.StatusOK},
		{entities.UserRoleEditor, "", http.StatusForbidden},
		{entities.UserRoleViewer, "application/json", http.StatusForbidden},
		{"", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			router := gin.New()
			router.Use(func(c *gin.Context) {
				if tt.role != "" {
					c.Set(contextKeyRole, tt.role)
				}
				c.Next()
			})
			router.GET("/tools", RequireCapability(entities.CapabilityManageOptions), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/tools", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestMiddleware_IsPublicPath(t *testing.T) {
	m := NewMiddleware(nil, nil, config.Auth{Mode: config.AuthModeLocal})

	assert.True(t, m.isPublicPath("/login"))
	assert.True(t, m.isPublicPath("/health"))
	assert.True(t, m.isPublicPath("/uploads/2025/03/image-ab12cd34.png"))
	assert.False(t, m.isPublicPath("/uploads"))
	assert.False(t, m.isPublicPath("/loginx"))
	assert.False(t, m.isPublicPath("/tools/bulk-importer"))
	assert.False(t, m.isPublicPath("/api/products"))
}

func TestIsLocalPath(t *testing.T) {
	assert.True(t, isLocalPath("/tools/bulk-importer?rows_imported=2"))
	assert.False(t, isLocalPath(""))
	assert.False(t, isLocalPath("//evil.example"))
	assert.False(t, isLocalPath("https://evil.example"))
	assert.False(t, isLocalPath(`/\evil.example`))
	assert.Equal(t, "/tools/bulk-importer", redirectTarget("https://evil.example"))
}

func TestGetUserIDAndRole_Anonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, DefaultUserID, GetUserID(c))
	assert.Empty(t, GetUserRole(c))
}
