package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidKey is returned for keys that are empty or try to escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// Object describes a blob after it has been written.
type Object struct {
	Key         string // Key the blob was stored under; may differ from the requested key
	URL         string // Public URL the blob is served from
	Size        int64
	ContentType string
}

// Client defines the interface for blob storage backends holding media files.
type Client interface {
	// Put writes content under key. Backends that cannot overwrite pick a
	// free key next to the requested one and report it in Object.Key.
	Put(ctx context.Context, key string, content io.Reader, contentType string) (Object, error)

	// Delete removes a stored blob; missing blobs are not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for key without touching the backend.
	URL(key string) string
}

// DatedKey builds the "YYYY/MM/filename" key media files are stored under.
func DatedKey(t time.Time, filename string) string {
	return path.Join(t.Format("2006"), t.Format("01"), filename)
}

// CleanKey normalizes a key and rejects absolute or parent-relative paths.
func CleanKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// JoinURL joins a base URL and a key with exactly one slash between them.
func JoinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// SiblingKey returns key with "-n" inserted before the extension,
// e.g. ("2024/05/a.png", 2) -> "2024/05/a-2.png".
func SiblingKey(key string, n int) string {
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + "-" + strconv.Itoa(n) + ext
}
