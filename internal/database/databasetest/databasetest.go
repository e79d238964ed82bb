// Package databasetest opens migrated throwaway databases for tests.
package databasetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/isdelr/portfolio-be/internal/database"
)

// New returns a migrated SQLite database stored under t.TempDir. It is closed
// when the test finishes.
func New(t *testing.T) *database.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.New(ctx, database.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
