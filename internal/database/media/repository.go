// Package media provides database operations for attachments.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

// Repository handles all attachment database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new media repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateAttachment registers a stored file and returns its ID.
func (r *Repository) CreateAttachment(ctx context.Context, attachment *entities.Attachment) (uint, error) {
	if attachment.Status == "" {
		attachment.Status = entities.PostStatusInherit
	}
	if err := r.db.WithContext(ctx).Create(attachment).Error; err != nil {
		return 0, err
	}
	return attachment.ID, nil
}

// UpdateAttachmentMetadata stores dimensions and rendition metadata.
func (r *Repository) UpdateAttachmentMetadata(ctx context.Context, id uint, metadata entities.AttachmentMetadata) error {
	sizes, err := json.Marshal(metadata.Sizes)
	if err != nil {
		return fmt.Errorf("encode renditions: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&entities.Attachment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"width":      metadata.Width,
			"height":     metadata.Height,
			"renditions": datatypes.JSON(sizes),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}

// GetAttachment retrieves an attachment by ID.
func (r *Repository) GetAttachment(ctx context.Context, id uint) (*entities.Attachment, error) {
	var attachment entities.Attachment
	err := r.db.WithContext(ctx).First(&attachment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

// GetAttachments retrieves attachments by ID, keyed by ID. Unknown IDs are absent from the map.
func (r *Repository) GetAttachments(ctx context.Context, ids []uint) (map[uint]entities.Attachment, error) {
	result := make(map[uint]entities.Attachment, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var attachments []entities.Attachment
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&attachments).Error; err != nil {
		return nil, err
	}
	for _, a := range attachments {
		result[a.ID] = a
	}
	return result, nil
}

// GetAttachmentsForParent lists the attachments owned by a product.
func (r *Repository) GetAttachmentsForParent(ctx context.Context, parentID uint) ([]entities.Attachment, error) {
	var attachments []entities.Attachment
	err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("id ASC").Find(&attachments).Error
	return attachments, err
}

// Renditions decodes the rendition metadata stored on an attachment.
func Renditions(attachment entities.Attachment) (map[string]entities.RenditionSize, error) {
	sizes := map[string]entities.RenditionSize{}
	if len(attachment.Renditions) == 0 {
		return sizes, nil
	}
	if err := json.Unmarshal(attachment.Renditions, &sizes); err != nil {
		return nil, err
	}
	return sizes, nil
}
