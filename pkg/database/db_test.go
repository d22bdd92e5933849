package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTemp(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestScopedReleasesConnection(t *testing.T) {
	db := openTemp(t)
	boom := errors.New("boom")

	// The sqlite pool holds a single connection, so each call below would
	// block forever if the previous one leaked it.
	err := Scoped(context.Background(), db, func(tx *gorm.DB) error { return boom })
	assert.ErrorIs(t, err, boom)

	assert.Panics(t, func() {
		_ = Scoped(context.Background(), db, func(tx *gorm.DB) error { panic("kaboom") })
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var one int
	err = Scoped(ctx, db, func(tx *gorm.DB) error {
		return tx.Raw("SELECT 1").Scan(&one).Error
	})
	require.NoError(t, err)
	assert.Equal(t, 1, one)
}

func TestScopedQueriesDoNotShareConditions(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.Exec("CREATE TABLE widgets (id integer primary key, price real)").Error)
	require.NoError(t, db.Exec("INSERT INTO widgets (price) VALUES (100), (150), (200)").Error)

	var (
		filtered []map[string]interface{}
		total    int64
	)
	err := Scoped(context.Background(), db, func(tx *gorm.DB) error {
		if err := tx.Table("widgets").Where("price >= ?", 150).Offset(1).Limit(1).Find(&filtered).Error; err != nil {
			return err
		}
		return tx.Table("widgets").Count(&total).Error
	})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
	assert.EqualValues(t, 3, total)
}

func TestScopedWithoutConnection(t *testing.T) {
	err := Scoped(context.Background(), nil, func(tx *gorm.DB) error { return nil })
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	db := openTemp(t)
	assert.NoError(t, Ping(context.Background(), db))
	assert.Error(t, Ping(context.Background(), nil))
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: products.sku")))
	assert.True(t, IsDuplicateKey(errors.New("Error 1062 (23000): Duplicate entry 'A' for key 'idx_products_sku'")))
	assert.False(t, IsDuplicateKey(errors.New("NOT NULL constraint failed: products.name")))
}

func TestOperationFromSQL(t *testing.T) {
	cases := map[string]string{
		"SELECT * FROM products":                   "select",
		"  insert into products (name) values (?)": "insert",
		"UPDATE products SET price=?":              "update",
		"DELETE FROM products WHERE id = ?":        "delete",
		"WITH x AS (SELECT 1) SELECT * FROM x":     "other",
		"CREATE TABLE products (id integer)":       "other",
		"":                                         "other",
	}
	for sql, want := range cases {
		assert.Equal(t, want, operationFromSQL(sql), sql)
	}
}
