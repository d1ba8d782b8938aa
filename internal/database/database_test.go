package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestNewDatabase_MigratesAllTables(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	for _, table := range []string{"users", "products", "product_meta", "attachments", "terms", "product_terms", "import_runs"} {
		assert.True(t, db.DB.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestNewDatabase_ReopenKeepsData(t *testing.T) {
	dbPath := "./test_reopen.db"
	defer os.Remove(dbPath)

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.DB.Create(&entities.Product{Title: "Explorer", Status: entities.PostStatusPublish, Type: entities.ProductType}).Error)
	require.NoError(t, db.Close())

	db, err = NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int64
	db.DB.Model(&entities.Product{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestProductMeta_UniquePerProduct(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, db.DB.Create(&entities.ProductMeta{ProductID: 1, Key: "k", Value: "a"}).Error)
	err := db.DB.Create(&entities.ProductMeta{ProductID: 1, Key: "k", Value: "b"}).Error
	assert.Error(t, err)

	require.NoError(t, db.DB.Create(&entities.ProductMeta{ProductID: 2, Key: "k", Value: "c"}).Error)
}
