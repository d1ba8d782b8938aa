package services

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/importers"
)

// ImportService runs an import and records it in the run history.
// The HTTP handler and the CLI both go through it.
type ImportService struct {
	importer Importer
	runs     RunRecorder
	archive  Archiver
}

// Option configures an ImportService.
type Option func(*ImportService)

// WithArchive copies every imported file into a.
func WithArchive(a Archiver) Option {
	return func(s *ImportService) {
		s.archive = a
	}
}

// NewImportService creates a new ImportService.
func NewImportService(importer Importer, runs RunRecorder, opts ...Option) *ImportService {
	s := &ImportService{
		importer: importer,
		runs:     runs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportFile validates filename, imports r and stores the run's outcome.
// Only fatal errors are returned; the summary of a completed run is always returned with it.
func (s *ImportService) ImportFile(ctx context.Context, userID uint, filename string, r io.Reader) (importers.Summary, error) {
	if err := importers.CheckFilename(filename); err != nil {
		return importers.Summary{}, err
	}

	run, err := s.runs.StartRun(ctx, userID, filename)
	if err != nil {
		// History is informational; the import still runs without it.
		zap.L().Warn("failed to record import run", zap.String("filename", filename), zap.Error(err))
		run = nil
	}

	var archived io.WriteCloser
	var archiveFile string
	if s.archive != nil {
		runID := ""
		if run != nil {
			runID = run.ID
		}
		if archived, archiveFile, err = s.archive.Create(runID, filename); err != nil {
			zap.L().Warn("failed to archive import file", zap.String("filename", filename), zap.Error(err))
			archived = nil
		} else {
			r = io.TeeReader(r, archived)
		}
	}

	summary, importErr := s.importer.Import(ctx, r)

	if archived != nil {
		// The importer may stop early; drain the tee so the archive holds the whole file.
		if _, err := io.Copy(io.Discard, r); err != nil {
			zap.L().Warn("failed to archive import file", zap.String("file", archiveFile), zap.Error(err))
		}
		if err := archived.Close(); err != nil {
			zap.L().Warn("failed to close import archive", zap.String("file", archiveFile), zap.Error(err))
		}
	}

	if run != nil {
		applySummary(run, summary)
		run.ArchiveFile = archiveFile
		run.Status = entities.ImportStatusCompleted
		if importErr != nil {
			run.Status = entities.ImportStatusFailed
			run.Error = truncate(importErr.Error(), 500)
		}
		// The request context may be gone by now; the run record should still be closed.
		if err := s.runs.FinishRun(context.WithoutCancel(ctx), run); err != nil {
			zap.L().Warn("failed to finish import run", zap.String("run_id", run.ID), zap.Error(err))
		}
	}

	if importErr != nil {
		return summary, fmt.Errorf("import %s: %w", filename, importErr)
	}
	return summary, nil
}

// RecentRuns lists the latest import runs.
func (s *ImportService) RecentRuns(ctx context.Context, limit int) ([]entities.ImportRun, error) {
	return s.runs.RecentRuns(ctx, limit)
}

func applySummary(run *entities.ImportRun, summary importers.Summary) {
	run.Rows = summary.Rows
	run.RecordsCreated = summary.RecordsCreated
	run.RecordsFailed = summary.RecordsFailed
	run.MalformedLines = summary.MalformedLines
	run.ImagesAttached = summary.ImagesAttached
	run.ImagesFailed = summary.ImagesFailed
	run.MetaFailed = summary.MetaFailed
	run.TermFailed = summary.TermFailed
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
