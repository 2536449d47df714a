// Package store implements the durable local cache for the trip document.
// The cache holds three values: the current document, the snapshot of the
// document as of the last successful sync, and the last-sync timestamp.
// No business logic lives here; only SQL and type mapping.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Go SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/tripfolio/tripfolio/internal/domain"
	"github.com/tripfolio/tripfolio/migrations"
)

// Well-known cache keys. The document and the last-synced snapshot are both
// stored as the serialized JSON the remote store exchanges, so change
// detection is a plain string comparison.
const (
	keyDocument     = "document"
	keyLastSynced   = "last_synced_document"
	keyLastSyncTime = "last_sync_time"
)

// Store defines the persistence operations for the local cache.
// The service and sync layers depend on this interface, not the concrete
// SQLite implementation, which allows them to be unit-tested with a mock.
type Store interface {
	// Document returns the current trip document. The boolean is false when
	// no document has been committed yet.
	Document(ctx context.Context) (domain.TripDocument, bool, error)

	// Commit persists a new version of the document. Every mutation, whether
	// from CRUD handlers or sync transfers, funnels through this single entry
	// point, so persistence-on-write is enforced in one place.
	Commit(ctx context.Context, doc domain.TripDocument) error

	// LastSyncedSnapshot returns the serialized document as of the most
	// recent successful sync. Used purely as a change-detection baseline.
	LastSyncedSnapshot(ctx context.Context) (string, bool, error)

	// LastSyncTime returns the instant of the most recent successful sync.
	LastSyncTime(ctx context.Context) (time.Time, bool, error)

	// SetLastSynced records the snapshot and timestamp of a successful sync
	// transfer in one transaction.
	SetLastSynced(ctx context.Context, snapshot string, at time.Time) error

	// TouchLastSyncTime refreshes only the timestamp, for cycles where both
	// sides were already identical and nothing was transferred.
	TouchLastSyncTime(ctx context.Context, at time.Time) error
}

// SQLite is the embedded single-file implementation of Store.
// An offline-first client cannot depend on a database server; SQLite in WAL
// mode gives durable local writes with zero operational surface.
type SQLite struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path, applies
// pending migrations, and returns a ready Store.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.Open: ping: %w", err)
	}
	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.Open: %w", err)
	}
	return &SQLite{db: db}, nil
}

// NewSQLite wraps an already opened and migrated database handle.
// Tests use this with a temp-file database from testutil.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Close closes the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Document returns the current trip document, if one has been committed.
func (s *SQLite) Document(ctx context.Context) (domain.TripDocument, bool, error) {
	raw, ok, err := s.get(ctx, keyDocument)
	if err != nil {
		return domain.TripDocument{}, false, fmt.Errorf("store.SQLite.Document: %w", err)
	}
	if !ok {
		return domain.TripDocument{}, false, nil
	}
	doc, err := domain.ParseDocument(raw)
	if err != nil {
		return domain.TripDocument{}, false, fmt.Errorf("store.SQLite.Document: %w", err)
	}
	return doc, true, nil
}

// Commit persists the document as indented JSON.
func (s *SQLite) Commit(ctx context.Context, doc domain.TripDocument) error {
	if err := s.set(ctx, keyDocument, doc.Serialize()); err != nil {
		return fmt.Errorf("store.SQLite.Commit: %w", err)
	}
	return nil
}

// LastSyncedSnapshot returns the serialized last-synced document.
func (s *SQLite) LastSyncedSnapshot(ctx context.Context) (string, bool, error) {
	raw, ok, err := s.get(ctx, keyLastSynced)
	if err != nil {
		return "", false, fmt.Errorf("store.SQLite.LastSyncedSnapshot: %w", err)
	}
	return raw, ok, nil
}

// LastSyncTime returns the recorded last-sync instant.
func (s *SQLite) LastSyncTime(ctx context.Context) (time.Time, bool, error) {
	raw, ok, err := s.get(ctx, keyLastSyncTime)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("store.SQLite.LastSyncTime: %w", err)
	}
	if !ok {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("store.SQLite.LastSyncTime: parse %q: %w", raw, err)
	}
	return t, true, nil
}

// SetLastSynced writes snapshot and timestamp in a single transaction so a
// crash cannot leave the two halves disagreeing.
func (s *SQLite) SetLastSynced(ctx context.Context, snapshot string, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store.SQLite.SetLastSynced: begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for key, value := range map[string]string{
		keyLastSynced:   snapshot,
		keyLastSyncTime: at.UTC().Format(time.RFC3339Nano),
	} {
		if _, err := tx.ExecContext(ctx, upsertQuery, key, value, now); err != nil {
			return fmt.Errorf("store.SQLite.SetLastSynced: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store.SQLite.SetLastSynced: commit: %w", err)
	}
	return nil
}

// TouchLastSyncTime refreshes the last-sync timestamp only.
func (s *SQLite) TouchLastSyncTime(ctx context.Context, at time.Time) error {
	if err := s.set(ctx, keyLastSyncTime, at.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("store.SQLite.TouchLastSyncTime: %w", err)
	}
	return nil
}

const upsertQuery = `
	INSERT INTO trip_store (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (s *SQLite) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM trip_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLite) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, upsertQuery, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}
