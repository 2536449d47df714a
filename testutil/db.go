// Package testutil provides shared helpers for tests that need a real
// database. SQLite is embedded, so these helpers run everywhere; each test
// gets a throwaway database file under t.TempDir().
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver

	"github.com/tripfolio/tripfolio/migrations"
)

// NewDB opens a fresh SQLite database in a per-test temp directory and
// applies all migrations. The connection is closed automatically when the
// test (and all its subtests) finish.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tripfolio_test.db")
	db, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		t.Fatalf("testutil.NewDB: open: %v", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewDB: ping: %v", err)
	}

	if err := migrations.Up(db); err != nil {
		db.Close()
		t.Fatalf("testutil.NewDB: migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}
