package turso_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/emiliopalmerini/abadmin/internal/adapters/turso"
	"github.com/emiliopalmerini/abadmin/internal/migrate"
)

// testDB opens a private in-memory database with all migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := turso.Open("file::memory:", "")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	if err := migrate.RunAll(context.Background(), db); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}
