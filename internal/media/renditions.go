package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // registers the webp decoder

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
)

// RenditionSpec is one derived size generated for every stored image.
type RenditionSpec struct {
	Name   string
	Width  int
	Height int
	Crop   bool // Fill the box exactly instead of fitting inside it
}

// DefaultRenditions are generated for every attachment, smallest first.
var DefaultRenditions = []RenditionSpec{
	{Name: "thumbnail", Width: 150, Height: 150, Crop: true},
	{Name: "medium", Width: 300, Height: 300},
	{Name: "large", Width: 1024, Height: 1024},
}

// ErrTooManyPixels is returned for images whose header declares more pixels
// than the configured limit.
var ErrTooManyPixels = errors.New("image exceeds pixel limit")

// checkPixels reads only the image header and rejects dimensions above
// maxPixels before anything is decoded. A zero limit disables the check.
// Headers that cannot be parsed are left for the full decode to report.
func checkPixels(data []byte, maxPixels int64) error {
	if maxPixels <= 0 {
		return nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return fmt.Errorf("%w: %dx%d is over %d pixels", ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels)
	}
	return nil
}

// GenerateRenditions decodes data, writes every rendition smaller than the
// original next to key, and returns the metadata to persist. An image that
// cannot be decoded, or that declares more than maxPixels, yields metadata
// without sizes together with the error.
func GenerateRenditions(ctx context.Context, blobs BlobStore, key string, data []byte, mimeType string, maxPixels int64) (entities.AttachmentMetadata, error) {
	metadata := entities.AttachmentMetadata{
		File:  key,
		Sizes: map[string]entities.RenditionSize{},
	}

	if err := checkPixels(data, maxPixels); err != nil {
		return metadata, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return metadata, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	metadata.Width = bounds.Dx()
	metadata.Height = bounds.Dy()

	format, outMime, ext := outputFormat(mimeType)
	base := strings.TrimSuffix(key, path.Ext(key))

	var errs []error
	for _, size := range DefaultRenditions {
		if !needsRendition(metadata.Width, metadata.Height, size) {
			continue
		}

		var resized image.Image
		if size.Crop {
			resized = imaging.Fill(img, size.Width, size.Height, imaging.Center, imaging.Lanczos)
		} else {
			resized = imaging.Fit(img, size.Width, size.Height, imaging.Lanczos)
		}

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, format); err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", size.Name, err))
			continue
		}

		w, h := resized.Bounds().Dx(), resized.Bounds().Dy()
		renditionKey := fmt.Sprintf("%s-%dx%d%s", base, w, h, ext)
		obj, err := blobs.Put(ctx, renditionKey, &buf, outMime)
		if err != nil {
			errs = append(errs, fmt.Errorf("store %s: %w", size.Name, err))
			continue
		}

		metadata.Sizes[size.Name] = entities.RenditionSize{
			File:     path.Base(obj.Key),
			Key:      obj.Key,
			URL:      obj.URL,
			Width:    w,
			Height:   h,
			MimeType: outMime,
			FileSize: obj.Size,
		}
	}

	return metadata, errors.Join(errs...)
}

// needsRendition reports whether size would shrink a width x height image.
// Cropped sizes need both sides at least as large as the box.
func needsRendition(width, height int, size RenditionSpec) bool {
	if size.Crop {
		return width >= size.Width && height >= size.Height && (width > size.Width || height > size.Height)
	}
	return width > size.Width || height > size.Height
}

// outputFormat picks the encoder for renditions. There is no pure-Go webp
// encoder, so webp originals get JPEG renditions.
func outputFormat(mimeType string) (imaging.Format, string, string) {
	switch mimeType {
	case "image/png":
		return imaging.PNG, "image/png", ".png"
	case "image/gif":
		return imaging.GIF, "image/gif", ".gif"
	default:
		return imaging.JPEG, "image/jpeg", ".jpeg"
	}
}
