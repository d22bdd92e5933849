// Package testdb opens a migrated SQLite database for tests.
package testdb

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/catalog/database/migrations"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/migration"
)

// Open returns a fresh database file under t.TempDir() with every
// registered migration applied. The pool is closed when the test ends.
//
// A file is used rather than ":memory:" because each pooled connection to
// an in-memory SQLite database sees its own empty database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "catalog_test.db"))
	if err != nil {
		t.Fatalf("testdb: open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if _, err := migration.NewRunner(db, migration.Default, nil).Run(); err != nil {
		t.Fatalf("testdb: migrate: %v", err)
	}
	return db
}
