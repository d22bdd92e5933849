package migrations

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/pkg/database"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "migrations.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func TestCreateProductsTableUsesAutoincrementOnSQLite(t *testing.T) {
	db := openSQLite(t)
	m := &CreateProductsTable{}
	require.NoError(t, m.Up(db))
	require.NoError(t, m.Up(db), "Up is safe to repeat")

	var ddl string
	require.NoError(t, db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'products'").Scan(&ddl).Error)
	assert.Contains(t, ddl, "AUTOINCREMENT")

	insert := func(sku string) int64 {
		require.NoError(t, db.Exec("INSERT INTO products (name, sku, price) VALUES (?, ?, ?)", "Lamp", sku, 10).Error)
		var id int64
		require.NoError(t, db.Raw("SELECT id FROM products WHERE sku = ?", sku).Scan(&id).Error)
		return id
	}

	first := insert("LAMP-1")
	require.NoError(t, db.Exec("DELETE FROM products WHERE id = ?", first).Error)
	assert.Greater(t, insert("LAMP-2"), first)

	var active bool
	require.NoError(t, db.Raw("SELECT active FROM products WHERE sku = ?", "LAMP-2").Scan(&active).Error)
	assert.True(t, active, "active defaults to true")

	err := db.Exec("INSERT INTO products (name, sku, price) VALUES (?, ?, ?)", "Other", "LAMP-2", 1).Error
	assert.True(t, database.IsDuplicateKey(err))
}

func TestCreateProductsTableDown(t *testing.T) {
	db := openSQLite(t)
	m := &CreateProductsTable{}
	require.NoError(t, m.Up(db))
	require.NoError(t, m.Down(db))
	assert.False(t, db.Migrator().HasTable("products"))
}
