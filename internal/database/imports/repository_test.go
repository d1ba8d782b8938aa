package imports

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_imports_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.ImportRun{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func TestRepository_StartAndFinishRun(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	run, err := repo.StartRun(ctx, 1, "products.csv")
	require.NoError(t, err)
	assert.Len(t, run.ID, 36)
	assert.Equal(t, entities.ImportStatusRunning, run.Status)

	run.Status = entities.ImportStatusCompleted
	run.Rows = 3
	run.RecordsCreated = 2
	run.RecordsFailed = 1
	require.NoError(t, repo.FinishRun(ctx, run))

	stored, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusCompleted, stored.Status)
	assert.Equal(t, 3, stored.Rows)
	assert.Equal(t, 1, stored.RecordsFailed)
	assert.NotNil(t, stored.FinishedAt)
}

func TestRepository_GetRun_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRepository_RecentRuns(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"first.csv", "second.csv", "third.csv"} {
		run := &entities.ImportRun{
			ID:        name,
			Filename:  name,
			Status:    entities.ImportStatusCompleted,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(run).Error)
	}

	runs, err := repo.RecentRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "third.csv", runs[0].Filename)
	assert.Equal(t, "second.csv", runs[1].Filename)
}

func TestRepository_PruneBefore(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	old := &entities.ImportRun{ID: "old", StartedAt: time.Now().AddDate(0, 0, -100), ArchiveFile: "old-watches.csv"}
	unarchived := &entities.ImportRun{ID: "unarchived", StartedAt: time.Now().AddDate(0, 0, -95)}
	recent := &entities.ImportRun{ID: "recent", StartedAt: time.Now(), ArchiveFile: "recent-watches.csv"}
	require.NoError(t, db.Create(old).Error)
	require.NoError(t, db.Create(unarchived).Error)
	require.NoError(t, db.Create(recent).Error)

	removed, archives, err := repo.PruneBefore(ctx, time.Now().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Equal(t, []string{"old-watches.csv"}, archives)

	_, err = repo.GetRun(ctx, "old")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = repo.GetRun(ctx, "recent")
	assert.NoError(t, err)
}
