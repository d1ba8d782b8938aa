// Package terms provides database operations for classification terms.
//
// Terms are unique per (taxonomy, slug). EnsureTerm is safe to call for every
// imported row; it only inserts the first time.
//
// # Usage
//
//	repo := terms.NewRepository(db)
//	termID, err := repo.EnsureTerm(ctx, "rolex", "brands")
//	err = repo.AssignTerm(ctx, productID, termID)
package terms

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
)

var (
	ErrTermNotFound = errors.New("term not found")
	ErrEmptyTerm    = errors.New("term name and taxonomy are required")
)

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and collapses everything but letters and digits into single hyphens.
func Slugify(name string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}

// Repository handles all term database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new terms repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EnsureTerm returns the ID of the term, creating it if it does not exist yet.
func (r *Repository) EnsureTerm(ctx context.Context, name, taxonomy string) (uint, error) {
	slug := Slugify(name)
	if slug == "" || taxonomy == "" {
		return 0, ErrEmptyTerm
	}

	term := &entities.Term{
		Name:     strings.TrimSpace(name),
		Slug:     slug,
		Taxonomy: taxonomy,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(term).Error
	if err != nil {
		return 0, err
	}

	existing, err := r.GetTermBySlug(ctx, slug, taxonomy)
	if err != nil {
		return 0, err
	}
	return existing.ID, nil
}

// GetTermBySlug retrieves a term by slug within a taxonomy.
func (r *Repository) GetTermBySlug(ctx context.Context, slug, taxonomy string) (*entities.Term, error) {
	var term entities.Term
	err := r.db.WithContext(ctx).Where("slug = ? AND taxonomy = ?", slug, taxonomy).First(&term).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTermNotFound
	}
	if err != nil {
		return nil, err
	}
	return &term, nil
}

// AssignTerm associates a term with a product. Assigning twice is a no-op.
func (r *Repository) AssignTerm(ctx context.Context, productID, termID uint) error {
	db := r.db.WithContext(ctx)

	var product entities.Product
	if err := db.First(&product, productID).Error; err != nil {
		return err
	}
	var term entities.Term
	if err := db.First(&term, termID).Error; err != nil {
		return err
	}
	return db.Model(&product).Association("Terms").Append(&term)
}
