package media

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_media_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Attachment{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_CreateAttachment_DefaultsToInherit(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	id, err := repo.CreateAttachment(ctx, &entities.Attachment{
		ParentID:   7,
		Title:      "image-abcd1234.png",
		MimeType:   "image/png",
		StorageKey: "2026/10/image-abcd1234.png",
		URL:        "/uploads/2026/10/image-abcd1234.png",
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	attachment, err := repo.GetAttachment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entities.PostStatusInherit, attachment.Status)
	assert.Equal(t, uint(7), attachment.ParentID)
	assert.Equal(t, "image/png", attachment.MimeType)
}

func TestRepository_UpdateAttachmentMetadata(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	id, err := repo.CreateAttachment(ctx, &entities.Attachment{ParentID: 1, Title: "image-x.jpg"})
	require.NoError(t, err)

	err = repo.UpdateAttachmentMetadata(ctx, id, entities.AttachmentMetadata{
		Width:  800,
		Height: 600,
		File:   "2026/10/image-x.jpg",
		Sizes: map[string]entities.RenditionSize{
			"thumbnail": {File: "image-x-150x150.jpg", Width: 150, Height: 150, MimeType: "image/jpeg"},
		},
	})
	require.NoError(t, err)

	attachment, err := repo.GetAttachment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 800, attachment.Width)
	assert.Equal(t, 600, attachment.Height)

	sizes, err := Renditions(*attachment)
	require.NoError(t, err)
	require.Contains(t, sizes, "thumbnail")
	assert.Equal(t, 150, sizes["thumbnail"].Width)
}

func TestRepository_UpdateAttachmentMetadata_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.UpdateAttachmentMetadata(context.Background(), 99, entities.AttachmentMetadata{})
	assert.ErrorIs(t, err, ErrAttachmentNotFound)
}

func TestRepository_GetAttachments(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	a, err := repo.CreateAttachment(ctx, &entities.Attachment{ParentID: 1, URL: "/uploads/a.png"})
	require.NoError(t, err)
	b, err := repo.CreateAttachment(ctx, &entities.Attachment{ParentID: 1, URL: "/uploads/b.png"})
	require.NoError(t, err)

	found, err := repo.GetAttachments(ctx, []uint{a, b, 999})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "/uploads/b.png", found[b].URL)

	empty, err := repo.GetAttachments(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	owned, err := repo.GetAttachmentsForParent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, owned, 2)
}

func TestRenditions_Empty(t *testing.T) {
	sizes, err := Renditions(entities.Attachment{})
	require.NoError(t, err)
	assert.Empty(t, sizes)
}
