// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── products/        # Catalog records, metadata and display images
//	├── terms/           # Classification terms and product associations
//	├── media/           # Attachments and rendition metadata
//	└── imports/         # Import run history
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./catalog.db")
//
//	productsRepo := products.NewRepository(db.DB)
//	termsRepo := terms.NewRepository(db.DB)
//
//	id, err := productsRepo.CreateRecord(ctx, "Submariner", entities.PostStatusPublish, entities.ProductType)
//
// # Interface Implementations
//
//   - products.Repository: implements the record and metadata half of importers.ContentStore
//   - terms.Repository: implements the classification half of importers.ContentStore
//   - media.Repository: implements media.AttachmentStore
//   - imports.Repository: implements services.RunRecorder and scheduler.Pruner
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Implement the required interface
//  5. Add the entity to Models in database.go
package database
