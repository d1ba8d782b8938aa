package cli

import (
	"github.com/spf13/cobra"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/config"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entrypoint"
)

func newServeCommand(cfg **config.Config, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bulk importer web UI and products API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(*cfg, version)
		},
	}
}
