// Package store owns the client database handle. Every component that needs
// persistence receives a *Store from the composition root; nothing opens its
// own connection, so the reconnect-on-staleness logic lives in one place.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/fieldsales/internal/client/migrations"
	"github.com/dmitrijs2005/fieldsales/internal/common"
	"github.com/dmitrijs2005/fieldsales/internal/logging"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// expectedTables is the collection set a healthy handle must report.
// A handle missing any of these is treated as stale and reopened.
var expectedTables = []string{
	"products", "customers", "images", "outbox", "checkpoints", "credentials",
}

// Store is the injectable database handle.
type Store struct {
	dsn string
	log logging.Logger

	mu sync.Mutex
	db *sql.DB
}

// New creates a Store for the given SQLite DSN. No I/O happens until Open.
func New(dsn string, log logging.Logger) *Store {
	return &Store{dsn: dsn, log: log}
}

// Open returns a healthy database handle, establishing or re-establishing
// the connection as needed. It is safe for concurrent use; concurrent calls
// converge on a single connection and migrations run at most once per
// (re)connect. Migrations are additive only: the embedded schema creates
// tables and indexes if absent, never destructively recreates them.
func (s *Store) Open(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		if err := s.healthy(ctx, s.db); err == nil {
			return s.db, nil
		}
		s.log.Warn(ctx, "store handle is stale, reconnecting")
		_ = s.db.Close()
		s.db = nil
	}

	db, err := sql.Open("sqlite", s.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", Classify(err))
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate store: %w", Classify(err))
	}

	if err := s.healthy(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store unhealthy after open: %w", err)
	}

	s.db = db
	return s.db, nil
}

// DB returns the current handle without opening one. Callers that may run
// before Open should use Open instead.
func (s *Store) DB() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, common.ErrStoreClosed
	}
	return s.db, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// ClearCaches wipes all mirror collections (products, customers, images,
// checkpoints). The outbox and saved credentials survive: pending orders are
// not cache, and offline logins must keep working after a cache clear.
func (s *Store) ClearCaches(ctx context.Context) error {
	db, err := s.Open(ctx)
	if err != nil {
		return err
	}
	for _, table := range []string{"products", "customers", "images", "checkpoints"} {
		if _, err := db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, Classify(err))
		}
	}
	return nil
}

// healthy pings the handle and verifies the expected collection set is
// present in the structural metadata.
func (s *Store) healthy(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return err
	}
	defer rows.Close()

	present := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, table := range expectedTables {
		if !present[table] {
			return fmt.Errorf("missing table %q", table)
		}
	}
	return nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Classify maps driver-level failures onto the shared error taxonomy so
// callers can distinguish "cache full" from everything else. Unrecognized
// errors pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "database or disk is full") || strings.Contains(msg, "SQLITE_FULL") {
		return errors.Join(common.ErrStorageFull, err)
	}
	return err
}
