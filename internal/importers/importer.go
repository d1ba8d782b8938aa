package importers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/media"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/observability"
)

// Fatal import errors. Nothing is imported when one of these is returned.
var (
	ErrNoFile   = errors.New("no file uploaded")
	ErrFileType = errors.New("invalid file type, please upload a CSV file")
	ErrOpen     = errors.New("unable to open the uploaded file")
	ErrFormat   = errors.New("invalid CSV file format")
)

// RecordStore creates catalog records and writes their metadata.
type RecordStore interface {
	CreateRecord(ctx context.Context, title string, status entities.PostStatus, recordType string) (uint, error)
	UpdateMeta(ctx context.Context, recordID uint, key, value string) error
	SetDisplayImage(ctx context.Context, recordID, attachmentID uint) error
}

// TermStore manages classification terms.
type TermStore interface {
	EnsureTerm(ctx context.Context, name, taxonomy string) (uint, error)
	AssignTerm(ctx context.Context, recordID, termID uint) error
}

// ContentStore is everything the importer writes to.
type ContentStore interface {
	RecordStore
	TermStore
}

// NewContentStore combines separate record and term stores.
func NewContentStore(records RecordStore, terms TermStore) ContentStore {
	return struct {
		RecordStore
		TermStore
	}{records, terms}
}

// ImageFetcher turns an image URL into an attachment owned by a record.
type ImageFetcher interface {
	FetchAndStore(ctx context.Context, url string, ownerID uint) media.FetchResult
}

// Classification is the term assigned to every imported record.
type Classification struct {
	Term     string
	Taxonomy string
}

// Summary counts what happened during an import.
// Rows includes rows whose record could not be created.
type Summary struct {
	Rows           int
	RecordsCreated int
	RecordsFailed  int
	MalformedLines int
	ImagesAttached int
	ImagesFailed   int
	MetaFailed     int
	TermFailed     int
}

// Importer creates one catalog record per CSV row.
type Importer struct {
	store          ContentStore
	fetcher        ImageFetcher
	registry       *Registry
	classification Classification
	metrics        *observability.Metrics
}

type Option func(*Importer)

// WithRegistry replaces the default column registry.
func WithRegistry(r *Registry) Option {
	return func(i *Importer) {
		i.registry = r
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(i *Importer) {
		i.metrics = m
	}
}

// NewImporter creates an importer that writes to store and fetches images with fetcher.
func NewImporter(store ContentStore, fetcher ImageFetcher, classification Classification, opts ...Option) *Importer {
	i := &Importer{
		store:          store,
		fetcher:        fetcher,
		registry:       DefaultRegistry(),
		classification: classification,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// CheckFilename rejects missing uploads and files without a .csv extension.
func CheckFilename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNoFile
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return ErrFileType
	}
	return nil
}

// Import processes every row of r. It only returns an error when the header
// cannot be read; row-level failures are logged and counted in the summary.
// Processing stops early if ctx is cancelled.
func (i *Importer) Import(ctx context.Context, r io.Reader) (Summary, error) {
	var summary Summary
	start := time.Now()
	defer func() {
		i.metrics.RunFinished(time.Since(start))
	}()

	rows, err := NewRowReader(r)
	if err != nil {
		return summary, err
	}
	zap.L().Info("import started", zap.Strings("columns", rows.Header()))

	for {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("import interrupted after %d rows: %w", summary.Rows, err)
		}

		row, err := rows.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			summary.MalformedLines++
			var lineErr *LineError
			if errors.As(err, &lineErr) {
				zap.L().Warn("skipping malformed line", zap.Int("line", lineErr.Line), zap.Error(lineErr.Err))
				continue
			}
			// The underlying reader failed; nothing after this point can be read.
			zap.L().Error("failed to read import file", zap.Int("rows", summary.Rows), zap.Error(err))
			break
		}

		i.importRow(ctx, row, &summary)
	}

	zap.L().Info("import finished",
		zap.Int("rows", summary.Rows),
		zap.Int("records_created", summary.RecordsCreated),
		zap.Int("records_failed", summary.RecordsFailed),
		zap.Int("images_attached", summary.ImagesAttached),
		zap.Int("images_failed", summary.ImagesFailed),
	)
	return summary, nil
}

func (i *Importer) importRow(ctx context.Context, row Row, summary *Summary) {
	summary.Rows++
	i.metrics.RowProcessed()
	log := zap.L().With(zap.Int("line", row.Line))

	recordID, err := i.store.CreateRecord(ctx, i.title(row), entities.PostStatusPublish, entities.ProductType)
	if err != nil {
		summary.RecordsFailed++
		i.metrics.RecordCreated(false)
		log.Warn("failed to create record, skipping row", zap.Error(err))
		return
	}
	summary.RecordsCreated++
	i.metrics.RecordCreated(true)
	log = log.With(zap.Uint("record_id", recordID))

	for _, name := range row.Columns {
		value := row.Values[name]
		if strings.TrimSpace(value) == "" {
			continue
		}

		column := i.registry.Lookup(name)
		if column.Kind == KindImage {
			i.attachImage(ctx, log, recordID, column, value, summary)
			continue
		}

		key := SanitizeKey(name)
		if key == "" {
			summary.MetaFailed++
			log.Warn("column name has no usable characters, skipping field", zap.String("column", name))
			continue
		}
		if err := i.store.UpdateMeta(ctx, recordID, key, SanitizeText(value)); err != nil {
			summary.MetaFailed++
			log.Warn("failed to store field", zap.String("column", name), zap.Error(err))
		}
	}

	i.classify(ctx, log, recordID, summary)
}

// title returns the sanitized title column value, or the placeholder when it is blank or absent.
func (i *Importer) title(row Row) string {
	if name := i.registry.TitleColumn(); name != "" {
		if v, ok := row.Get(name); ok {
			if title := SanitizeText(v); title != "" {
				return title
			}
		}
	}
	return UntitledProduct
}

func (i *Importer) attachImage(ctx context.Context, log *zap.Logger, recordID uint, column Column, url string, summary *Summary) {
	log = log.With(zap.String("column", column.Name))

	result := i.fetcher.FetchAndStore(ctx, url, recordID)
	if !result.OK() {
		summary.ImagesFailed++
		log.Warn("image not attached, skipping field",
			zap.String("url", url),
			zap.String("reason", string(result.Reason)),
			zap.Error(result.Err),
		)
		return
	}
	summary.ImagesAttached++

	if column.Attach.SetDisplayImage {
		if err := i.store.SetDisplayImage(ctx, recordID, result.AttachmentID); err != nil {
			summary.MetaFailed++
			log.Warn("failed to set display image", zap.Uint("attachment_id", result.AttachmentID), zap.Error(err))
		}
	}
	if column.Attach.StoreMeta {
		value := strconv.FormatUint(uint64(result.AttachmentID), 10)
		if err := i.store.UpdateMeta(ctx, recordID, SanitizeKey(column.Name), value); err != nil {
			summary.MetaFailed++
			log.Warn("failed to store image reference", zap.Uint("attachment_id", result.AttachmentID), zap.Error(err))
		}
	}
}

func (i *Importer) classify(ctx context.Context, log *zap.Logger, recordID uint, summary *Summary) {
	termID, err := i.store.EnsureTerm(ctx, i.classification.Term, i.classification.Taxonomy)
	if err != nil {
		summary.TermFailed++
		log.Warn("failed to ensure classification term",
			zap.String("term", i.classification.Term),
			zap.String("taxonomy", i.classification.Taxonomy),
			zap.Error(err),
		)
		return
	}
	if err := i.store.AssignTerm(ctx, recordID, termID); err != nil {
		summary.TermFailed++
		log.Warn("failed to assign classification term", zap.Uint("term_id", termID), zap.Error(err))
	}
}
