package services

import (
	"context"
	"io"
	"time"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/importers"
)

// Importer turns a CSV stream into catalog records.
type Importer interface {
	Import(ctx context.Context, r io.Reader) (importers.Summary, error)
}

// RunRecorder persists import run history.
type RunRecorder interface {
	StartRun(ctx context.Context, userID uint, filename string) (*entities.ImportRun, error)
	FinishRun(ctx context.Context, run *entities.ImportRun) error
	RecentRuns(ctx context.Context, limit int) ([]entities.ImportRun, error)
}

// Archiver keeps a copy of uploaded files. Create returns the writer and
// the stored file's name.
type Archiver interface {
	Create(id, filename string) (io.WriteCloser, string, error)
}

// RunPruner deletes old import run history.
type RunPruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, []string, error)
}
