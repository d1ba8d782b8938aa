package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Pruner deletes import history older than a cutoff and reports the
// archive files the deleted runs referenced.
type Pruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, []string, error)
}

// ArchiveRemover deletes archived upload files by name.
type ArchiveRemover interface {
	Remove(name string) error
}

// Option configures a HistoryCleanupScheduler.
type Option func(*HistoryCleanupScheduler)

// WithArchiveRemover deletes the archive files of pruned runs.
func WithArchiveRemover(archives ArchiveRemover) Option {
	return func(s *HistoryCleanupScheduler) {
		s.archives = archives
	}
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a standard five-field cron expression.
func ValidateSchedule(schedule string) error {
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// HistoryCleanupScheduler periodically removes old import runs.
type HistoryCleanupScheduler struct {
	pruner    Pruner
	archives  ArchiveRemover
	schedule  string
	retention time.Duration
	now       func() time.Time

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewHistoryCleanupScheduler creates a scheduler that keeps retentionDays of history.
// A retentionDays of zero disables cleanup.
func NewHistoryCleanupScheduler(pruner Pruner, schedule string, retentionDays int, opts ...Option) *HistoryCleanupScheduler {
	s := &HistoryCleanupScheduler{
		pruner:    pruner,
		schedule:  schedule,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
		cron:      cron.New(cron.WithParser(parser)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules the cleanup job. It stops when ctx is cancelled.
func (s *HistoryCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.retention <= 0 {
		zap.L().Info("history cleanup scheduler: disabled")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	zap.L().Info("history cleanup scheduler: started",
		zap.String("schedule", s.schedule),
		zap.Duration("retention", s.retention),
		zap.Time("next_run", s.cron.Entry(entryID).Next),
	)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the scheduler.
func (s *HistoryCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false

	zap.L().Info("history cleanup scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *HistoryCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next cleanup will occur, or nil when stopped.
func (s *HistoryCleanupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	t := s.cron.Entry(s.entryID).Next
	return &t
}

// RunNow prunes history synchronously and returns the number of removed runs.
func (s *HistoryCleanupScheduler) RunNow(ctx context.Context) int64 {
	if s.retention <= 0 {
		return 0
	}

	cutoff := s.now().Add(-s.retention)
	removed, archives, err := s.pruner.PruneBefore(ctx, cutoff)
	if err != nil {
		zap.L().Error("history cleanup failed", zap.Time("cutoff", cutoff), zap.Error(err))
		return 0
	}

	deleted := 0
	if s.archives != nil {
		for _, name := range archives {
			if err := s.archives.Remove(name); err != nil {
				zap.L().Warn("failed to remove import archive", zap.String("archive", name), zap.Error(err))
				continue
			}
			deleted++
		}
	}

	if removed > 0 {
		zap.L().Info("history cleanup finished",
			zap.Int64("removed", removed),
			zap.Int("archives_removed", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
	return removed
}
