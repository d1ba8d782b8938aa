// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - RecordStore, TermStore: catalog writes made by the importer (internal/importers/importer.go)
//   - AttachmentStore: attachment rows for fetched images (internal/media/fetcher.go)
//   - RunRecorder, RunPruner: import history (internal/services/interfaces.go)
//   - ProductReader, AttachmentReader: products API (internal/http/products.go)
//
// ## Storage Interfaces
//
//   - storage.Client: blob backends, local filesystem or S3 (internal/storage/client.go)
//   - BlobStore: the write-only subset the fetcher needs (internal/media/fetcher.go)
//
// ## Pipeline Interfaces
//
//   - ImageFetcher: downloads and attaches one image (internal/importers/importer.go)
//   - Importer: CSV stream to records (internal/services/interfaces.go)
//   - ImportRunner: what the upload handler calls (internal/http/bulk_importer.go)
//
// # Adding a Column With Special Handling
//
// Columns are plain metadata unless the registry says otherwise. To make a
// column an image column:
//
//	registry := importers.NewRegistry(
//	    importers.Column{Name: importers.ColumnProductTitle, Kind: importers.KindTitle},
//	    importers.Column{Name: "lifestyle-image", Kind: importers.KindImage,
//	        Attach: importers.AttachPolicy{StoreMeta: true}},
//	)
//	importer := importers.NewImporter(store, fetcher, classification, importers.WithRegistry(registry))
//
// # Adding a Storage Backend
//
//  1. Create a provider under internal/storage/providers/
//
//     type Store struct { ... }
//
//     func (s *Store) Put(ctx context.Context, key string, content io.Reader, contentType string) (storage.Object, error)
//     func (s *Store) Delete(ctx context.Context, key string) error
//     func (s *Store) URL(key string) string
//
//  2. Add a compile-time check to checks.go
//
//  3. Select it in newBlobStore (internal/entrypoint/entrypoint.go)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
