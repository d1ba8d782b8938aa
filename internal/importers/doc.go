// Package importers turns uploaded CSV files into catalog records.
//
// # Flow
//
//	CSV → RowReader → Row → Importer → ContentStore / ImageFetcher
//
// The first line of the file names the columns. Every following line becomes
// exactly one record:
//
//  1. The record is created with the title column's value (or UntitledProduct).
//     If that fails the row is skipped.
//  2. Each non-empty column is looked up in the Registry. Image columns are
//     fetched and attached according to their AttachPolicy; everything else,
//     the title included, is stored as sanitized metadata.
//  3. The configured Classification term is ensured and assigned.
//
// Failures after step 1 never abort the row or the run. They are logged and
// counted in the Summary.
//
// # Usage
//
//	store := importers.NewContentStore(productsRepo, termsRepo)
//	importer := importers.NewImporter(store, fetcher, importers.Classification{Term: "rolex", Taxonomy: "brands"})
//	summary, err := importer.Import(ctx, file)
//
// # Adding a Column Type
//
// Register the column with its kind and policy and pass the registry in:
//
//	registry := importers.NewRegistry(
//	    importers.Column{Name: "product-title", Kind: importers.KindTitle},
//	    importers.Column{Name: "gallery-cover", Kind: importers.KindImage,
//	        Attach: importers.AttachPolicy{StoreMeta: true}},
//	)
//	importer := importers.NewImporter(store, fetcher, classification, importers.WithRegistry(registry))
package importers
