// Package media downloads remote images, stores them as attachments and
// generates their renditions.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/config"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/observability"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/storage"
)

// ErrTimeoutRequired is returned when a fetcher is built without a timeout.
var ErrTimeoutRequired = errors.New("fetch timeout must be greater than zero")

// allowedTypes maps accepted content types to the file extension they are stored with.
var allowedTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// BlobStore writes raw bytes. storage.Client implementations satisfy it.
type BlobStore interface {
	Put(ctx context.Context, key string, content io.Reader, contentType string) (storage.Object, error)
}

// AttachmentStore registers stored files and their derived metadata.
type AttachmentStore interface {
	CreateAttachment(ctx context.Context, attachment *entities.Attachment) (uint, error)
	UpdateAttachmentMetadata(ctx context.Context, id uint, metadata entities.AttachmentMetadata) error
}

// Fetcher downloads images one at a time and turns them into attachments.
type Fetcher struct {
	httpClient  *http.Client
	blobs       BlobStore
	attachments AttachmentStore
	maxBytes    int64
	maxPixels   int64
	userAgent   string
	metrics     *observability.Metrics
	now         func() time.Time
}

// NewFetcher creates a fetcher. A zero timeout is rejected so no fetch can hang forever.
func NewFetcher(cfg config.Fetch, blobs BlobStore, attachments AttachmentStore, metrics *observability.Metrics) (*Fetcher, error) {
	if cfg.Timeout <= 0 {
		return nil, ErrTimeoutRequired
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		blobs:       blobs,
		attachments: attachments,
		maxBytes:    cfg.MaxBytes,
		maxPixels:   cfg.MaxPixels,
		userAgent:   cfg.UserAgent,
		metrics:     metrics,
		now:         time.Now,
	}, nil
}

// FetchAndStore downloads rawURL, stores it and registers an attachment owned
// by ownerID. Failures are reported in the result, never as a panic.
func (f *Fetcher) FetchAndStore(ctx context.Context, rawURL string, ownerID uint) FetchResult {
	result := f.fetchAndStore(ctx, strings.TrimSpace(rawURL), ownerID)
	f.metrics.ImageFetched(result.Status.String(), string(result.Reason))
	return result
}

func (f *Fetcher) fetchAndStore(ctx context.Context, rawURL string, ownerID uint) FetchResult {
	if rawURL == "" {
		return FetchResult{Status: NotAttempted}
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return failed(ReasonFetchError, fmt.Errorf("invalid image url %q", rawURL))
	}

	data, mimeType, result := f.download(ctx, parsed.String())
	if result.Status == Failed {
		return result
	}
	if err := checkPixels(data, f.maxPixels); err != nil {
		return failed(ReasonTooLarge, err)
	}

	filename := "image-" + randomToken() + "." + allowedTypes[mimeType]
	key := storage.DatedKey(f.now(), filename)

	obj, err := f.blobs.Put(ctx, key, bytes.NewReader(data), mimeType)
	if err != nil {
		return failed(ReasonStoreError, err)
	}

	id, err := f.attachments.CreateAttachment(ctx, &entities.Attachment{
		ParentID:   ownerID,
		Title:      filename,
		MimeType:   mimeType,
		Status:     entities.PostStatusInherit,
		StorageKey: obj.Key,
		URL:        obj.URL,
		FileSize:   obj.Size,
	})
	if err != nil {
		return failed(ReasonAttachError, err)
	}

	metadata, err := GenerateRenditions(ctx, f.blobs, obj.Key, data, mimeType, f.maxPixels)
	if err != nil {
		zap.L().Warn("rendition generation incomplete",
			zap.Uint("attachment_id", id),
			zap.String("key", obj.Key),
			zap.Error(err),
		)
	}
	if err := f.attachments.UpdateAttachmentMetadata(ctx, id, metadata); err != nil {
		zap.L().Warn("failed to save attachment metadata",
			zap.Uint("attachment_id", id),
			zap.Error(err),
		)
	}

	return succeeded(id)
}

// download returns the body and normalized content type of an accepted image.
func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, string, FetchResult) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", failed(ReasonFetchError, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", failed(ReasonFetchError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", failed(ReasonBadStatus, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	mimeType, err := normalizeContentType(resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, "", failed(ReasonUnsupportedType, err)
	}

	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return nil, "", failed(ReasonTooLarge, fmt.Errorf("content length %d exceeds %d bytes", resp.ContentLength, f.maxBytes))
	}

	body := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, "", failed(ReasonFetchError, err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, "", failed(ReasonTooLarge, fmt.Errorf("body exceeds %d bytes", f.maxBytes))
	}

	return data, mimeType, FetchResult{}
}

// normalizeContentType strips parameters and checks the type against the allow-list.
func normalizeContentType(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing content type")
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return "", fmt.Errorf("invalid content type %q: %w", header, err)
	}
	mediaType = strings.ToLower(mediaType)
	if _, ok := allowedTypes[mediaType]; !ok {
		return "", fmt.Errorf("content type %q is not an accepted image type", mediaType)
	}
	return mediaType, nil
}

// randomToken returns 8 random lowercase alphanumerics for filenames.
func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
