package importers

// Well-known column names.
const (
	ColumnProductTitle       = "product-title"
	ColumnMainImagePrimary   = "main-image-primary"
	ColumnMainImageSecondary = "main-image-secondary"
	ColumnFeaturedImage      = "featured-image"
)

// UntitledProduct is used when a row has no title.
const UntitledProduct = "Untitled Product"

// ColumnKind selects how a column's value is handled.
type ColumnKind int

const (
	KindMeta  ColumnKind = iota // Sanitized text stored as metadata
	KindTitle                   // Record title; also stored as metadata
	KindImage                   // URL fetched and stored as an attachment
)

func (k ColumnKind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindImage:
		return "image"
	default:
		return "meta"
	}
}

// AttachPolicy says what to do with an attachment fetched for an image column.
type AttachPolicy struct {
	SetDisplayImage bool // Make it the record's display image
	StoreMeta       bool // Store the attachment ID under the column's key
}

// Column describes one known column.
type Column struct {
	Name   string
	Kind   ColumnKind
	Attach AttachPolicy
}

// Registry maps column names to their handling. Unknown columns are metadata.
type Registry struct {
	columns map[string]Column
	order   []string // Registration order
	title   string
}

// NewRegistry builds a registry from column definitions. The last KindTitle
// column wins as the title column.
func NewRegistry(columns ...Column) *Registry {
	r := &Registry{columns: make(map[string]Column, len(columns))}
	for _, c := range columns {
		if _, seen := r.columns[c.Name]; !seen {
			r.order = append(r.order, c.Name)
		}
		r.columns[c.Name] = c
		if c.Kind == KindTitle {
			r.title = c.Name
		}
	}
	return r
}

// DefaultRegistry returns the product catalog columns.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Column{Name: ColumnProductTitle, Kind: KindTitle},
		Column{Name: ColumnMainImagePrimary, Kind: KindImage, Attach: AttachPolicy{SetDisplayImage: true, StoreMeta: true}},
		Column{Name: ColumnMainImageSecondary, Kind: KindImage, Attach: AttachPolicy{StoreMeta: true}},
		Column{Name: ColumnFeaturedImage, Kind: KindImage, Attach: AttachPolicy{SetDisplayImage: true}},
	)
}

// Lookup returns the definition for name, or a metadata column if name is unknown.
func (r *Registry) Lookup(name string) Column {
	if c, ok := r.columns[name]; ok {
		return c
	}
	return Column{Name: name, Kind: KindMeta}
}

// TitleColumn returns the name of the title column, or "" if none is registered.
func (r *Registry) TitleColumn() string {
	return r.title
}

// ImageColumns lists the registered image columns in registration order.
func (r *Registry) ImageColumns() []Column {
	var images []Column
	for _, name := range r.order {
		if c := r.columns[name]; c.Kind == KindImage {
			images = append(images, c)
		}
	}
	return images
}
