package http

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/database/products"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/importers"
)

// galleryMetaKey holds comma-separated attachment ids.
const galleryMetaKey = "gallery-images"

// imageColumns are the meta keys that may hold an attachment id.
var imageColumns = importers.DefaultRegistry().ImageColumns()

type ProductReader interface {
	GetProduct(ctx context.Context, id uint) (*entities.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]entities.Product, int64, error)
}

type AttachmentReader interface {
	GetAttachments(ctx context.Context, ids []uint) (map[uint]entities.Attachment, error)
}

type TermResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Taxonomy string `json:"taxonomy"`
}

// ProductResponse is a product with its image references resolved to URLs.
// featured_media_url and main_image_primary_url are always present (null when
// unset); the per-column *_url fields only appear when the column has an image.
type ProductResponse struct {
	ID                    uint              `json:"id"`
	Title                 string            `json:"title"`
	Status                string            `json:"status"`
	Type                  string            `json:"type"`
	FeaturedMedia         uint              `json:"featured_media"`
	Meta                  map[string]string `json:"meta"`
	Terms                 []TermResponse    `json:"terms"`
	CreatedAt             time.Time         `json:"date"`
	ModifiedAt            time.Time         `json:"modified"`
	FeaturedMediaURL      *string           `json:"featured_media_url"`
	MainImagePrimaryURL   *string           `json:"main_image_primary_url"`
	MainImageSecondaryURL string            `json:"main-image-secondary_url,omitempty"`
	FeaturedImageURL      string            `json:"featured-image_url,omitempty"`
	GalleryImagesURLs     []string          `json:"gallery_images_urls"`
}

type ProductsController struct {
	products    ProductReader
	attachments AttachmentReader
}

func NewProductsController(products ProductReader, attachments AttachmentReader) *ProductsController {
	return &ProductsController{products: products, attachments: attachments}
}

// ListProducts returns a page of products, newest first.
func (pc *ProductsController) ListProducts(c *gin.Context) {
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	items, total, err := pc.products.ListProducts(c.Request.Context(), limit, offset)
	if err != nil {
		respondInternalError(c, err, "list products")
		return
	}

	responses, err := pc.resolve(c.Request.Context(), items)
	if err != nil {
		respondInternalError(c, err, "resolve product images")
		return
	}

	c.JSON(200, PaginatedResponse{
		Data:    responses,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(items)) < total,
	})
}

// GetProduct returns one product.
func (pc *ProductsController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := pc.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, products.ErrProductNotFound) {
			respondNotFound(c, "product")
			return
		}
		respondInternalError(c, err, "get product")
		return
	}

	responses, err := pc.resolve(c.Request.Context(), []entities.Product{*product})
	if err != nil {
		respondInternalError(c, err, "resolve product images")
		return
	}
	c.JSON(200, responses[0])
}

// resolve builds responses for items, loading every referenced attachment in one query.
func (pc *ProductsController) resolve(ctx context.Context, items []entities.Product) ([]ProductResponse, error) {
	var ids []uint
	for _, p := range items {
		ids = append(ids, referencedAttachments(p)...)
	}

	attachments := map[uint]entities.Attachment{}
	if len(ids) > 0 {
		var err error
		if attachments, err = pc.attachments.GetAttachments(ctx, ids); err != nil {
			return nil, err
		}
	}

	responses := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		responses = append(responses, buildProductResponse(p, attachments))
	}
	return responses, nil
}

func buildProductResponse(p entities.Product, attachments map[uint]entities.Attachment) ProductResponse {
	meta := metaMap(p)
	urlOf := func(id uint) string {
		if a, ok := attachments[id]; ok {
			return a.URL
		}
		return ""
	}
	urlOfMeta := func(key string) string {
		id, ok := parseAttachmentID(meta[key])
		if !ok {
			return ""
		}
		return urlOf(id)
	}

	resp := ProductResponse{
		ID:                    p.ID,
		Title:                 p.Title,
		Status:                string(p.Status),
		Type:                  p.Type,
		Meta:                  meta,
		Terms:                 make([]TermResponse, 0, len(p.Terms)),
		CreatedAt:             p.CreatedAt,
		ModifiedAt:            p.UpdatedAt,
		MainImageSecondaryURL: urlOfMeta(importers.ColumnMainImageSecondary),
		FeaturedImageURL:      urlOfMeta(importers.ColumnFeaturedImage),
		GalleryImagesURLs:     []string{},
	}
	for _, t := range p.Terms {
		resp.Terms = append(resp.Terms, TermResponse{ID: t.ID, Name: t.Name, Slug: t.Slug, Taxonomy: t.Taxonomy})
	}

	if p.DisplayImageID != nil {
		resp.FeaturedMedia = *p.DisplayImageID
		if u := urlOf(*p.DisplayImageID); u != "" {
			resp.FeaturedMediaURL = &u
		}
	}
	if u := urlOfMeta(importers.ColumnMainImagePrimary); u != "" {
		resp.MainImagePrimaryURL = &u
	}
	for _, id := range galleryIDs(meta[galleryMetaKey]) {
		if u := urlOf(id); u != "" {
			resp.GalleryImagesURLs = append(resp.GalleryImagesURLs, u)
		}
	}

	return resp
}

func metaMap(p entities.Product) map[string]string {
	meta := make(map[string]string, len(p.Meta))
	for _, m := range p.Meta {
		meta[m.Key] = m.Value
	}
	return meta
}

func referencedAttachments(p entities.Product) []uint {
	var ids []uint
	if p.DisplayImageID != nil {
		ids = append(ids, *p.DisplayImageID)
	}
	meta := metaMap(p)
	for _, c := range imageColumns {
		if id, ok := parseAttachmentID(meta[c.Name]); ok {
			ids = append(ids, id)
		}
	}
	return append(ids, galleryIDs(meta[galleryMetaKey])...)
}

func parseAttachmentID(s string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// galleryIDs parses "12, 13,14"; entries that are not ids are skipped.
func galleryIDs(value string) []uint {
	var ids []uint
	for _, part := range strings.Split(value, ",") {
		if id, ok := parseAttachmentID(part); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
