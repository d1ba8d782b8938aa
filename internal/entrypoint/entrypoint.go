package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/audit"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/auth"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/config"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/database"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/database/imports"
	mediadb "github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/database/media"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/database/products"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/database/terms"
	http_controllers "github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/http"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/importers"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/media"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/observability"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/scheduler"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/services"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/storage"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/storage/providers/local"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/storage/providers/s3"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the components shared by the server and the command line tools.
type App struct {
	Config      *config.Config
	DB          *database.Database
	Blobs       storage.Client
	Metrics     *observability.Metrics
	Products    *products.Repository
	Attachments *mediadb.Repository
	Runs        *imports.Repository
	Archive     *audit.Auditor // nil when archiving is disabled
	Imports     *services.ImportService
	Auth        *auth.Service
}

// Build opens the database and storage backend and wires the import pipeline.
// Callers must Close the returned App.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	blobs, err := newBlobStore(ctx, cfg.Storage)
	if err != nil {
		db.Close()
		return nil, err
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	app := &App{
		Config:      cfg,
		DB:          db,
		Blobs:       blobs,
		Metrics:     metrics,
		Products:    products.NewRepository(db.DB),
		Attachments: mediadb.NewRepository(db.DB),
		Runs:        imports.NewRepository(db.DB),
		Auth:        auth.NewService(db.DB, cfg.Auth),
	}

	fetcher, err := media.NewFetcher(cfg.Fetch, blobs, app.Attachments, metrics)
	if err != nil {
		db.Close()
		return nil, err
	}

	importer := importers.NewImporter(
		importers.NewContentStore(app.Products, terms.NewRepository(db.DB)),
		fetcher,
		importers.Classification{Term: cfg.Classification.Term, Taxonomy: cfg.Classification.Taxonomy},
		importers.WithMetrics(metrics),
	)
	var serviceOpts []services.Option
	if cfg.Import.ArchiveDir != "" {
		app.Archive = audit.NewAuditor(cfg.Import.ArchiveDir)
		serviceOpts = append(serviceOpts, services.WithArchive(app.Archive))
	}
	app.Imports = services.NewImportService(importer, app.Runs, serviceOpts...)

	return app, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}

func newBlobStore(ctx context.Context, cfg config.Storage) (storage.Client, error) {
	switch cfg.Backend {
	case config.StorageBackendS3:
		store, err := s3.NewStore(ctx, s3.Options{
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		zap.L().Info("storage backend: s3", zap.String("bucket", cfg.S3Bucket), zap.String("prefix", cfg.S3Prefix))
		return store, nil
	default:
		store, err := local.NewStore(cfg.UploadsDir, cfg.UploadsBaseURL)
		if err != nil {
			return nil, err
		}
		zap.L().Info("storage backend: local", zap.String("dir", cfg.UploadsDir), zap.String("base_url", cfg.UploadsBaseURL))
		return store, nil
	}
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts down gracefully.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		zap.L().Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server", zap.Duration("timeout", timeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the server goes away
	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	zap.L().Info("server exited")
	return nil
}

// Run starts the bulk importer web application.
func Run(cfg *config.Config, version string) error {
	zap.L().Info("starting bulk product importer", zap.String("version", version))

	app, err := Build(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			zap.L().Warn("error closing database", zap.Error(err))
		}
	}()

	// Import history cleanup
	var cleanupOpts []scheduler.Option
	if app.Archive != nil {
		cleanupOpts = append(cleanupOpts, scheduler.WithArchiveRemover(app.Archive))
	}
	cleanup := scheduler.NewHistoryCleanupScheduler(app.Runs, cfg.Import.HistoryCleanupSchedule, cfg.Import.HistoryRetentionDays, cleanupOpts...)
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	if err := cleanup.Start(cleanupCtx); err != nil {
		return fmt.Errorf("start history cleanup: %w", err)
	}

	csrfSecret, err := csrfSecretFor(cfg.Auth)
	if err != nil {
		return err
	}

	// Initialize authentication if enabled
	var authService *auth.Service
	var sessionManager *auth.SessionManager
	if cfg.Auth.Mode == config.AuthModeLocal {
		zap.L().Info("authentication mode: local")
		authService = app.Auth

		sqlDB, err := app.DB.DB.DB()
		if err != nil {
			return fmt.Errorf("get sql.DB for sessions: %w", err)
		}
		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			return fmt.Errorf("initialize session manager: %w", err)
		}

		if hasUsers, _ := app.Auth.HasUsers(); !hasUsers {
			zap.L().Warn("no users found, visit /setup to create an administrator account")
		}
	} else {
		zap.L().Warn("authentication mode: none, every request acts as administrator")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Importer:       app.Imports,
		Products:       app.Products,
		Attachments:    app.Attachments,
		Database:       app.DB,
		AuthService:    authService,
		SessionManager: sessionManager,
		AuthConfig:     cfg.Auth,
		CSRFSecret:     csrfSecret,
		MaxUploadSize:  cfg.Import.MaxFileSize,
		RecentRuns:     cfg.Import.RecentRunsOnImportsPage,
		UploadsDir:     uploadsDirFor(cfg.Storage),
		UploadsBaseURL: cfg.Storage.UploadsBaseURL,
		Metrics:        app.Metrics,
		Version:        version,
	})

	return Serve(router, cfg, func(ctx context.Context) {
		cleanup.Stop()
	})
}

// csrfSecretFor derives the anti-forgery key from the configured secret, or
// generates one that lasts until the process exits.
func csrfSecretFor(cfg config.Auth) ([]byte, error) {
	if cfg.SessionSecret != "" {
		return auth.SecretKey(cfg.SessionSecret), nil
	}
	secret, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	zap.L().Info("generated session secret (set AUTH_SESSION_SECRET to persist)")
	return auth.SecretKey(secret), nil
}

func uploadsDirFor(cfg config.Storage) string {
	if cfg.Backend == config.StorageBackendS3 {
		return ""
	}
	return cfg.UploadsDir
}
