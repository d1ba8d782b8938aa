package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/storage"
)

func TestNewStore_CreatesDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")

	store, err := NewStore(root, "/uploads")
	require.NoError(t, err)
	assert.Equal(t, root, store.RootDir())

	_, err = os.Stat(root)
	assert.NoError(t, err)
}

func TestStore_Put(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	obj, err := store.Put(context.Background(), "2026/10/image-abc.png", strings.NewReader("png bytes"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "2026/10/image-abc.png", obj.Key)
	assert.Equal(t, "/uploads/2026/10/image-abc.png", obj.URL)
	assert.Equal(t, int64(9), obj.Size)
	assert.Equal(t, "image/png", obj.ContentType)

	data, err := os.ReadFile(filepath.Join(store.RootDir(), "2026", "10", "image-abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))
}

func TestStore_Put_NeverOverwrites(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	first, err := store.Put(ctx, "a/b.jpg", strings.NewReader("one"), "image/jpeg")
	require.NoError(t, err)
	second, err := store.Put(ctx, "a/b.jpg", strings.NewReader("two"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "a/b.jpg", first.Key)
	assert.Equal(t, "a/b-1.jpg", second.Key)

	data, err := os.ReadFile(filepath.Join(store.RootDir(), "a", "b.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestStore_Put_LeavesNoTempFiles(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "x/y.gif", strings.NewReader("gif"), "image/gif")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(store.RootDir(), "x"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "y.gif", entries[0].Name())
}

func TestStore_Put_RejectsEscapingKeys(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	for _, key := range []string{"", "/etc/passwd", "../outside.png", "a/../../b.png"} {
		_, err := store.Put(context.Background(), key, strings.NewReader("x"), "image/png")
		assert.ErrorIs(t, err, storage.ErrInvalidKey, "key %q", key)
	}
}

func TestStore_Delete(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	obj, err := store.Put(ctx, "d/e.webp", strings.NewReader("webp"), "image/webp")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, obj.Key))
	_, err = os.Stat(filepath.Join(store.RootDir(), "d", "e.webp"))
	assert.True(t, os.IsNotExist(err))

	// Deleting again is not an error
	assert.NoError(t, store.Delete(ctx, obj.Key))
}
