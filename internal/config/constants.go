package config

// Default paths for local state
const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./catalog.db"

	// DefaultUploadsDir is where the local blob store keeps fetched images
	DefaultUploadsDir = "./uploads"

	// DefaultArchiveDir keeps a copy of every uploaded import file
	DefaultArchiveDir = "./import-archive"
)
