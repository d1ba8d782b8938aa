package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/audit"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/auth"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/database/imports"
	mediadb "github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/database/media"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/database/products"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/database/terms"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/http"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/importers"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/media"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/scheduler"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/services"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/storage"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/storage/providers/local"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/storage/providers/s3"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// RecordStore / TermStore implementations
var _ importers.RecordStore = (*products.Repository)(nil)
var _ importers.TermStore = (*terms.Repository)(nil)

// AttachmentStore implementations
var _ media.AttachmentStore = (*mediadb.Repository)(nil)

// Import history
var _ services.RunRecorder = (*imports.Repository)(nil)
var _ services.RunPruner = (*imports.Repository)(nil)
var _ scheduler.Pruner = (*imports.Repository)(nil)
var _ scheduler.ArchiveRemover = (*audit.Auditor)(nil)

// Products API
var _ http.ProductReader = (*products.Repository)(nil)
var _ http.AttachmentReader = (*mediadb.Repository)(nil)

// Authentication
var _ auth.UserLookup = (*auth.Service)(nil)

// =============================================================================
// Blob Storage
// =============================================================================

// Client implementations
var _ storage.Client = (*local.Store)(nil)
var _ storage.Client = (*s3.Store)(nil)
var _ media.BlobStore = (storage.Client)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ importers.ImageFetcher = (*media.Fetcher)(nil)
var _ services.Importer = (*importers.Importer)(nil)
var _ http.ImportRunner = (*services.ImportService)(nil)
var _ services.Archiver = (*audit.Auditor)(nil)
