package http

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/auth"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/config"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.RequestLogger())
	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(auth.StrictTransportSecurityMiddleware())

	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	importer := NewBulkImporterController(cfg.Importer, cfg.MaxUploadSize, cfg.RecentRuns)
	router.Use(importer.LimitBody())

	// CSRF must run before the session middleware: it replaces the request,
	// and the session context has to be attached to the replacement.
	router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.AuthConfig.SecureCookies))
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadAndSave())
	}
	router.Use(auth.NewMiddleware(cfg.AuthService, cfg.SessionManager, cfg.AuthConfig).Handler())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Remote base URLs (CDN, bucket) are served by someone else.
	if cfg.UploadsDir != "" && strings.HasPrefix(cfg.UploadsBaseURL, "/") {
		router.Static(cfg.UploadsBaseURL, cfg.UploadsDir)
	}

	if cfg.AuthConfig.Mode == config.AuthModeLocal && cfg.AuthService != nil && cfg.SessionManager != nil {
		auth.NewController(cfg.AuthService, cfg.SessionManager).RegisterRoutes(router)
	}

	tools := router.Group("/tools", auth.RequireCapability(entities.CapabilityManageOptions))
	tools.GET("/bulk-importer", importer.Page)
	tools.POST("/bulk-importer", importer.Upload)

	productsController := NewProductsController(cfg.Products, cfg.Attachments)
	api := router.Group("/api", auth.RequireCapability(entities.CapabilityReadProducts))
	api.GET("/products", productsController.ListProducts)
	api.GET("/products/:id", productsController.GetProduct)

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, BulkImporterPath)
	})

	return router
}
