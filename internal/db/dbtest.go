package db

import (
	"context"
	"path/filepath"
	"testing"
)

// NewTestSQLite returns a migrated SQLite database in a temporary directory.
func NewTestSQLite(t testing.TB) *SQLite {
	t.Helper()

	database, err := NewSQLite(filepath.Join(t.TempDir(), "sites.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := database.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return database
}
