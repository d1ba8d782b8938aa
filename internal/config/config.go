package config

import (
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // Every request acts as the built-in administrator
	AuthModeLocal AuthMode = "local" // Local user database with sessions
)

type StorageBackend string

const (
	StorageBackendLocal StorageBackend = "local"
	StorageBackendS3    StorageBackend = "s3"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Storage
		Fetch
		Classification
		Import
		Auth
		Logging
		Metrics
	}

	HTTP struct {
		Port int32  `validate:"gt=0,lte=65535"`
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int `validate:"gte=0"`
	}
	Database struct {
		Path string `validate:"required"`
	}
	Storage struct {
		Backend StorageBackend `validate:"oneof=local s3"`

		// Local filesystem backend
		UploadsDir     string
		UploadsBaseURL string

		// S3 backend
		S3Bucket        string `validate:"required_if=Backend s3"`
		S3Prefix        string
		S3PublicBaseURL string
		S3Endpoint      string // Optional, for S3-compatible endpoints such as LocalStack or MinIO
		S3Region        string
	}
	Fetch struct {
		Timeout   time.Duration `validate:"required,gt=0"` // No default fetch may hang forever
		MaxBytes  int64         `validate:"gt=0"`
		MaxPixels int64         `validate:"gt=0"` // Declared width*height above this is refused before decoding
		UserAgent string
	}
	Classification struct {
		Term     string `validate:"required"`
		Taxonomy string `validate:"required"`
	}
	Import struct {
		MaxFileSize             int64 `validate:"gt=0"`
		HistoryRetentionDays    int   `validate:"gte=0"` // 0 keeps history forever
		HistoryCleanupSchedule  string
		RecentRunsOnImportsPage int
		ArchiveDir              string // Copies of uploaded files; empty disables archiving
	}
	Auth struct {
		Mode            AuthMode `validate:"oneof=none local"`
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
		LockoutDuration time.Duration
	}
	Logging struct {
		Env   string // "production" switches to JSON output
		Level string
	}
	Metrics struct {
		Enabled bool
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Storage defaults
	v.SetDefault("storage_backend", string(StorageBackendLocal))
	v.SetDefault("uploads_dir", DefaultUploadsDir)
	v.SetDefault("uploads_base_url", "/uploads")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_prefix", "uploads")
	v.SetDefault("s3_public_base_url", "")
	v.SetDefault("aws_endpoint", "")
	v.SetDefault("aws_region", "us-east-1")

	// Remote image fetch defaults
	v.SetDefault("fetch_timeout", "30s")
	v.SetDefault("fetch_max_bytes", 20<<20)
	v.SetDefault("fetch_max_pixels", 40_000_000)
	v.SetDefault("fetch_user_agent", "CatalogImporter/1.0")

	// Default classification applied to every imported product
	v.SetDefault("classification_term", "rolex")
	v.SetDefault("classification_taxonomy", "brands")

	// Import defaults
	v.SetDefault("import_max_file_size", 10<<20)
	v.SetDefault("import_history_retention_days", 90)
	v.SetDefault("import_history_cleanup_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("import_recent_runs", 10)
	v.SetDefault("import_archive_dir", DefaultArchiveDir)

	// Auth defaults
	v.SetDefault("auth_mode", string(AuthModeLocal))
	v.SetDefault("auth_session_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "12h") // 12 hours
	v.SetDefault("auth_bcrypt_cost", 12)         // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)    // HTTPS-only cookies
	v.SetDefault("auth_lockout_duration", "30m") // Lockout duration

	v.SetDefault("log_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_enabled", true)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Storage: Storage{
			Backend:         StorageBackend(v.GetString("STORAGE_BACKEND")),
			UploadsDir:      v.GetString("UPLOADS_DIR"),
			UploadsBaseURL:  v.GetString("UPLOADS_BASE_URL"),
			S3Bucket:        v.GetString("S3_BUCKET"),
			S3Prefix:        v.GetString("S3_PREFIX"),
			S3PublicBaseURL: v.GetString("S3_PUBLIC_BASE_URL"),
			S3Endpoint:      v.GetString("AWS_ENDPOINT"),
			S3Region:        v.GetString("AWS_REGION"),
		},
		Fetch: Fetch{
			Timeout:   v.GetDuration("FETCH_TIMEOUT"),
			MaxBytes:  v.GetInt64("FETCH_MAX_BYTES"),
			MaxPixels: v.GetInt64("FETCH_MAX_PIXELS"),
			UserAgent: v.GetString("FETCH_USER_AGENT"),
		},
		Classification: Classification{
			Term:     v.GetString("CLASSIFICATION_TERM"),
			Taxonomy: v.GetString("CLASSIFICATION_TAXONOMY"),
		},
		Import: Import{
			MaxFileSize:             v.GetInt64("IMPORT_MAX_FILE_SIZE"),
			HistoryRetentionDays:    v.GetInt("IMPORT_HISTORY_RETENTION_DAYS"),
			HistoryCleanupSchedule:  v.GetString("IMPORT_HISTORY_CLEANUP_SCHEDULE"),
			RecentRunsOnImportsPage: v.GetInt("IMPORT_RECENT_RUNS"),
			ArchiveDir:              v.GetString("IMPORT_ARCHIVE_DIR"),
		},
		Auth: Auth{
			Mode:            AuthMode(v.GetString("AUTH_MODE")),
			SessionSecret:   v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
			LockoutDuration: v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Logging: Logging{
			Env:   v.GetString("LOG_ENV"),
			Level: v.GetString("LOG_LEVEL"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}
}
