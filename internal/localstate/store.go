// Package localstate persists the degraded-mode completion flags in a
// local SQLite file. It is the client-side analogue of the browser's
// localStorage: written on every successful live check, read only when
// a live check fails, cleared on sign-out.
//
// WAL mode is enabled so concurrent flag writes from the two parallel
// completeness checks never block each other.
package localstate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	// Register the pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/skecho/skecho-client/internal/model"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

var _ model.FlagStore = (*Store)(nil)

// Store is a SQLite-backed FlagStore. Values older than ttl read back
// as absent, so a stale fallback is never trusted.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// NewStore wraps an existing database handle. Migrations are the
// caller's responsibility; Open is the usual entry point.
func NewStore(db *sql.DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl}
}

// Open opens (creating if needed) the local state database at path and
// applies pending migrations.
func Open(ctx context.Context, path string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open local state database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize local state database: %w", err)
	}

	return NewStore(db, ttl), nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Get returns the persisted flag for (uid, key). ok is false when the
// flag was never written, or when it is older than the degraded TTL.
func (s *Store) Get(ctx context.Context, uid, key string) (bool, bool, error) {
	query := `SELECT value, updated_at FROM profile_flags WHERE uid = ? AND key = ?`

	var value bool
	var updatedAt string
	err := s.db.QueryRowContext(ctx, query, uid, key).Scan(&value, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("failed to get flag %q: %w", key, err)
	}

	written, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return false, false, fmt.Errorf("failed to parse flag timestamp: %w", err)
	}
	if s.ttl > 0 && time.Since(written) > s.ttl {
		return false, false, nil
	}

	return value, true, nil
}

// Set writes the flag for (uid, key), refreshing its timestamp.
func (s *Store) Set(ctx context.Context, uid, key string, value bool) error {
	query := `INSERT INTO profile_flags (uid, key, value, updated_at) VALUES (?, ?, ?, ?)
			  ON CONFLICT(uid, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query, uid, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to set flag %q: %w", key, err)
	}
	return nil
}

// Clear removes every persisted flag for the given user.
func (s *Store) Clear(ctx context.Context, uid string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profile_flags WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("failed to clear flags: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
