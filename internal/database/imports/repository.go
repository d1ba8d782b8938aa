// Package imports provides database operations for import run history.
package imports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
)

var ErrRunNotFound = errors.New("import run not found")

// Repository handles all import run database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new import runs repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// StartRun records a new running import.
func (r *Repository) StartRun(ctx context.Context, userID uint, filename string) (*entities.ImportRun, error) {
	run := &entities.ImportRun{
		ID:        uuid.NewString(),
		UserID:    userID,
		Filename:  filename,
		Status:    entities.ImportStatusRunning,
		StartedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// FinishRun stores the final counters and status of a run.
func (r *Repository) FinishRun(ctx context.Context, run *entities.ImportRun) error {
	now := time.Now()
	run.FinishedAt = &now
	return r.db.WithContext(ctx).Save(run).Error
}

// GetRun retrieves a run by ID.
func (r *Repository) GetRun(ctx context.Context, id string) (*entities.ImportRun, error) {
	var run entities.ImportRun
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// RecentRuns returns the latest runs, newest first.
func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]entities.ImportRun, error) {
	var runs []entities.ImportRun
	query := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&runs).Error
	return runs, err
}

// PruneBefore deletes runs started before cutoff. It returns how many were
// removed and the archive file names those runs referenced.
func (r *Repository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, []string, error) {
	var removed int64
	var archives []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.ImportRun{}).
			Where("started_at < ? AND archive_file <> ''", cutoff).
			Pluck("archive_file", &archives).Error; err != nil {
			return err
		}
		result := tx.Where("started_at < ?", cutoff).Delete(&entities.ImportRun{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return removed, archives, nil
}
