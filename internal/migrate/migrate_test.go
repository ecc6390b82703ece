package migrate_test

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/abadmin/internal/migrate"
	"github.com/emiliopalmerini/abadmin/migrations"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("libsql", "file::memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSplitSQL(t *testing.T) {
	got := migrate.SplitSQL("CREATE TABLE a (x INT);\n\n  ;CREATE TABLE b (y INT)\n")
	if len(got) != 2 || got[0] != "CREATE TABLE a (x INT)" || got[1] != "CREATE TABLE b (y INT)" {
		t.Errorf("SplitSQL() = %q", got)
	}
}

func TestLoad_SortsAndPairsDown(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.up.sql":   {Data: []byte("CREATE TABLE b (y INT)")},
		"001_first.up.sql":    {Data: []byte("CREATE TABLE a (x INT)")},
		"001_first.down.sql":  {Data: []byte("DROP TABLE a")},
		"README.md":           {Data: []byte("ignored")},
		"003_broken.down.sql": {Data: []byte("DROP TABLE c")},
	}

	got, err := migrate.Load(fsys)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load() returned %d migrations, want 2", len(got))
	}
	if got[0].Version != 1 || got[0].DownSQL != "DROP TABLE a" {
		t.Errorf("first migration = %+v", got[0])
	}
	if got[1].Version != 2 || got[1].DownSQL != "" {
		t.Errorf("second migration = %+v", got[1])
	}
}

func TestTo_UpAndDown(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	all, err := migrate.Load(migrations.FS)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	version, err := migrate.To(ctx, db, all, -1)
	if err != nil {
		t.Fatalf("To(latest) error = %v", err)
	}
	if version != all[len(all)-1].Version {
		t.Errorf("version = %d, want %d", version, all[len(all)-1].Version)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES ('u', 'alice', 'x', 'now')`); err != nil {
		t.Fatalf("schema missing users table: %v", err)
	}

	version, err = migrate.To(ctx, db, all, 0)
	if err != nil {
		t.Fatalf("To(0) error = %v", err)
	}
	if version != 0 {
		t.Errorf("version = %d, want 0", version)
	}
	if _, err := db.ExecContext(ctx, `SELECT 1 FROM users`); err == nil {
		t.Error("users table still exists after rollback")
	}
}

func TestRunAll_Idempotent(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := migrate.RunAll(ctx, db); err != nil {
			t.Fatalf("RunAll() #%d error = %v", i, err)
		}
	}
	_, dirty, err := migrate.CurrentVersion(ctx, db)
	if err != nil || dirty {
		t.Errorf("CurrentVersion() dirty=%v err=%v", dirty, err)
	}
}
