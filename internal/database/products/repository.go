// Package products provides database operations for catalog records and
// their metadata.
//
// # Usage
//
//	repo := products.NewRepository(db)
//	id, err := repo.CreateRecord(ctx, "Submariner", entities.PostStatusPublish, entities.ProductType)
//	err = repo.UpdateMeta(ctx, id, "reference", "126610LN")
package products

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
)

var ErrProductNotFound = errors.New("product not found")

// Repository handles all product database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new products repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateRecord inserts a new product and returns its ID.
func (r *Repository) CreateRecord(ctx context.Context, title string, status entities.PostStatus, recordType string) (uint, error) {
	product := &entities.Product{
		Title:  title,
		Status: status,
		Type:   recordType,
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return 0, err
	}
	return product.ID, nil
}

// UpdateMeta sets a metadata value, replacing any previous value for the key.
func (r *Repository) UpdateMeta(ctx context.Context, productID uint, key, value string) error {
	meta := &entities.ProductMeta{
		ProductID: productID,
		Key:       key,
		Value:     value,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(meta).Error
}

// SetDisplayImage points the product's display image at an attachment.
func (r *Repository) SetDisplayImage(ctx context.Context, productID, attachmentID uint) error {
	result := r.db.WithContext(ctx).Model(&entities.Product{}).
		Where("id = ?", productID).
		Update("display_image_id", attachmentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GetProduct retrieves a product with its metadata and terms.
func (r *Repository) GetProduct(ctx context.Context, id uint) (*entities.Product, error) {
	var product entities.Product
	err := r.db.WithContext(ctx).
		Preload("Meta", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Terms").
		First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns a page of products, newest first, and the total count.
func (r *Repository) ListProducts(ctx context.Context, limit, offset int) ([]entities.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entities.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []entities.Product
	query := r.db.WithContext(ctx).
		Preload("Meta", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Terms").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&products).Error
	return products, total, err
}
