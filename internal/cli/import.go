package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/auth"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/config"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entrypoint"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/importers"
)

// newImportCommand runs a CSV file through the same pipeline as the web upload.
func newImportCommand(cfg **config.Config) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "import --file <products.csv>",
		Short: "Import products from a CSV file",
		Long: `Import products from a CSV file without going through the web UI.

The first row must be a header. Every following row becomes one product;
image columns are fetched and attached exactly as for a web upload.`,
		Example: `  bulk-importer import --file watches.csv
  STORAGE_BACKEND=s3 S3_BUCKET=catalog-media bulk-importer import --file watches.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := importers.CheckFilename(path); err != nil {
				return err
			}

			file, err := os.Open(path)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("file not found: %s", path)
				}
				return fmt.Errorf("%w: %v", importers.ErrOpen, err)
			}
			defer file.Close()

			app, err := entrypoint.Build(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			summary, err := app.Imports.ImportFile(cmd.Context(), auth.DefaultUserID, filepath.Base(path), file)
			if err != nil {
				return err
			}

			zap.L().Info("import finished",
				zap.String("file", path),
				zap.Int("rows", summary.Rows),
				zap.Int("records_failed", summary.RecordsFailed),
				zap.Int("images_failed", summary.ImagesFailed),
			)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d rows imported successfully.\n", summary.Rows)
			if summary.RecordsFailed > 0 || summary.ImagesFailed > 0 || summary.MalformedLines > 0 {
				fmt.Fprintf(out, "  records failed:  %d\n", summary.RecordsFailed)
				fmt.Fprintf(out, "  images failed:   %d\n", summary.ImagesFailed)
				fmt.Fprintf(out, "  malformed lines: %d\n", summary.MalformedLines)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "CSV file to import (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
