// Package cli wires the command line: the web server and the offline tools
// that share its configuration and import pipeline.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/config"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/logging"
)

// NewRootCommand builds the command tree. Running it without a subcommand serves the web UI.
func NewRootCommand(version string) *cobra.Command {
	var cfg *config.Config
	var flushLogs func()

	serve := newServeCommand(&cfg, version)

	rootCmd := &cobra.Command{
		Use:           "bulk-importer",
		Short:         "Bulk CSV product importer",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.NewConfig()
			flush, err := logging.Initialize(cfg.Logging.Env, cfg.Logging.Level)
			if err != nil {
				return err
			}
			flushLogs = flush

			if db, _ := cmd.Flags().GetString("db"); db != "" {
				cfg.Database.Path = db
				zap.L().Debug("database path overridden", zap.String("path", db))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if flushLogs != nil {
				flushLogs()
			}
		},
		RunE: serve.RunE,
	}

	rootCmd.PersistentFlags().String("db", "", "Path to the catalog database (overrides DATABASE_PATH)")

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(newImportCommand(&cfg))
	rootCmd.AddCommand(newCreateAdminCommand(&cfg))

	return rootCmd
}
