// Package local implements storage.Client on the local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/storage"
)

// maxSiblingAttempts bounds the search for a free filename.
const maxSiblingAttempts = 100

// Store keeps blobs under a root directory and serves them from baseURL.
type Store struct {
	rootDir string
	baseURL string
}

// NewStore creates the root directory if needed.
func NewStore(rootDir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{rootDir: rootDir, baseURL: baseURL}, nil
}

// Put writes content atomically. An existing file is never overwritten;
// the blob goes to the first free "name-N.ext" sibling instead.
func (s *Store) Put(ctx context.Context, key string, content io.Reader, contentType string) (storage.Object, error) {
	key, err := storage.CleanKey(key)
	if err != nil {
		return storage.Object{}, err
	}
	if err := ctx.Err(); err != nil {
		return storage.Object{}, err
	}

	dir := filepath.Join(s.rootDir, filepath.Dir(filepath.FromSlash(key)))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return storage.Object{}, fmt.Errorf("create dir: %w", err)
	}

	// Create temp file in same directory so the final link stays on one filesystem
	tmpFile, err := os.CreateTemp(dir, ".upload_tmp_")
	if err != nil {
		return storage.Object{}, err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't link
	}()

	size, err := io.Copy(tmpFile, content)
	if err != nil {
		return storage.Object{}, fmt.Errorf("write blob: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return storage.Object{}, fmt.Errorf("close blob: %w", err)
	}

	finalKey, err := s.linkFree(tmpPath, key)
	if err != nil {
		return storage.Object{}, err
	}

	return storage.Object{
		Key:         finalKey,
		URL:         s.URL(finalKey),
		Size:        size,
		ContentType: contentType,
	}, nil
}

// linkFree hard-links tmpPath to the first key that does not exist yet.
// os.Link fails on existing targets, which makes the check race-free.
func (s *Store) linkFree(tmpPath, key string) (string, error) {
	candidate := key
	for n := 1; n <= maxSiblingAttempts; n++ {
		err := os.Link(tmpPath, s.path(candidate))
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("store blob: %w", err)
		}
		candidate = storage.SiblingKey(key, n)
	}
	return "", fmt.Errorf("store blob: no free name for %s", key)
}

// Delete removes a blob; a missing file is ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	key, err := storage.CleanKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// URL returns the public URL for key.
func (s *Store) URL(key string) string {
	return storage.JoinURL(s.baseURL, key)
}

// RootDir returns the directory blobs are stored in, for static file serving.
func (s *Store) RootDir() string {
	return s.rootDir
}

func (s *Store) path(key string) string {
	return filepath.Join(s.rootDir, filepath.FromSlash(key))
}

var _ storage.Client = (*Store)(nil)
