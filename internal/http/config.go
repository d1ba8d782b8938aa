package http

import (
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/auth"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/config"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/database"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/observability"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Importer    ImportRunner
	Products    ProductReader
	Attachments AttachmentReader
	Database    *database.Database

	// Authentication; AuthService and SessionManager are nil in "none" mode
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthConfig     config.Auth
	CSRFSecret     []byte

	// Uploads
	MaxUploadSize int64
	RecentRuns    int

	// Local blob store; UploadsDir is empty when images live elsewhere
	UploadsDir     string
	UploadsBaseURL string

	// Metrics is nil when the endpoint is disabled
	Metrics *observability.Metrics

	Version string
}
