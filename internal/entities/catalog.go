package entities

import (
	"time"

	"gorm.io/datatypes"
)

type PostStatus string

const (
	PostStatusPublish PostStatus = "publish"
	PostStatusDraft   PostStatus = "draft"
	PostStatusInherit PostStatus = "inherit" // Attachments take the visibility of their parent
)

// ProductType is the record type every imported row is created with.
const ProductType = "products"

// Product is a catalog record. Imported rows only ever create products;
// nothing in the importer deletes them.
type Product struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Title          string        `gorm:"index;size:512" json:"title"`
	Status         PostStatus    `gorm:"size:20;default:'publish'" json:"status"`
	Type           string        `gorm:"index;size:50" json:"type"`
	DisplayImageID *uint         `gorm:"index" json:"featured_media,omitempty"`
	DisplayImage   *Attachment   `gorm:"foreignKey:DisplayImageID" json:"-"`
	Meta           []ProductMeta `gorm:"foreignKey:ProductID" json:"-"`
	Terms          []Term        `gorm:"many2many:product_terms;" json:"terms,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// ProductMeta is a single key/value pair attached to a product.
// Keys are unique per product; writes replace the previous value.
type ProductMeta struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"uniqueIndex:idx_product_meta_key" json:"product_id"`
	Key       string    `gorm:"uniqueIndex:idx_product_meta_key;size:191" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Attachment is a stored media file owned by a product.
type Attachment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ParentID   uint           `gorm:"index" json:"parent_id"`
	Title      string         `gorm:"size:255" json:"title"`
	MimeType   string         `gorm:"size:100" json:"mime_type"`
	Status     PostStatus     `gorm:"size:20;default:'inherit'" json:"status"`
	StorageKey string         `gorm:"size:1024" json:"storage_key"`
	URL        string         `gorm:"size:2048" json:"url"`
	FileSize   int64          `json:"file_size"`
	Width      int            `json:"width,omitempty"`
	Height     int            `json:"height,omitempty"`
	Renditions datatypes.JSON `json:"renditions,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Term is a classification value inside a taxonomy (e.g. "rolex" in "brands").
type Term struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200" json:"name"`
	Slug      string    `gorm:"uniqueIndex:idx_term_taxonomy_slug;size:200" json:"slug"`
	Taxonomy  string    `gorm:"uniqueIndex:idx_term_taxonomy_slug;size:32" json:"taxonomy"`
	Products  []Product `gorm:"many2many:product_terms;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// RenditionSize describes one derived image stored next to the original.
type RenditionSize struct {
	File     string `json:"file"`
	Key      string `json:"key"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"filesize"`
}

// AttachmentMetadata is the derived metadata persisted after renditions are generated.
type AttachmentMetadata struct {
	Width  int                      `json:"width"`
	Height int                      `json:"height"`
	File   string                   `json:"file"`
	Sizes  map[string]RenditionSize `json:"sizes"`
}

func (Product) TableName() string {
	return "products"
}

func (ProductMeta) TableName() string {
	return "product_meta"
}

func (Attachment) TableName() string {
	return "attachments"
}

func (Term) TableName() string {
	return "terms"
}
