package repository

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// openTestDB opens a fresh database in a per-test temp dir with the full
// schema applied.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
