package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/fieldsales/internal/common"
	"github.com/dmitrijs2005/fieldsales/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.Default())
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "fieldsales.db")
	s := New(dsn, testLogger())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_CreatesSchema(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	db, err := s.Open(ctx)
	require.NoError(t, err)

	for _, table := range expectedTables {
		var n int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s must exist", table)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	db1, err := s.Open(ctx)
	require.NoError(t, err)
	db2, err := s.Open(ctx)
	require.NoError(t, err)
	assert.Same(t, db1, db2, "repeated opens must converge on one handle")
}

func TestOpen_RecoversStaleHandle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	db, err := s.Open(ctx)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO checkpoints (name, last_success, count) VALUES ('catalog', '2026-01-01T00:00:00Z', 10)`)
	require.NoError(t, err)

	// Simulate an external invalidation: the handle no longer reports the
	// expected collection set.
	_, err = db.ExecContext(ctx, `DROP TABLE credentials`)
	require.NoError(t, err)

	db2, err := s.Open(ctx)
	require.NoError(t, err, "open must transparently reconnect, not fail")

	var n int
	require.NoError(t, db2.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='credentials'`).Scan(&n))
	assert.Equal(t, 1, n, "missing collection must be recreated")

	var count int
	require.NoError(t, db2.QueryRowContext(ctx,
		`SELECT count FROM checkpoints WHERE name='catalog'`).Scan(&count))
	assert.Equal(t, 10, count, "existing records must survive the reconnect")
}

func TestOpen_MigrationPreservesData(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "fieldsales.db")
	ctx := context.Background()

	s1 := New(dsn, testLogger())
	db, err := s1.Open(ctx)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO products (item_id, name) VALUES ('I1', 'Mug')`)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// A fresh store on the same file re-runs the migration chain; records in
	// previously existing collections must be preserved.
	s2 := New(dsn, testLogger())
	db2, err := s2.Open(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s2.Close() })

	var name string
	require.NoError(t, db2.QueryRowContext(ctx,
		`SELECT name FROM products WHERE item_id='I1'`).Scan(&name))
	assert.Equal(t, "Mug", name)
}

func TestDB_BeforeOpen(t *testing.T) {
	s := newTestStore(t)
	_, err := s.DB()
	assert.ErrorIs(t, err, common.ErrStoreClosed)
}

func TestClearCaches_KeepsOutboxAndCredentials(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	db, err := s.Open(ctx)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO products (item_id) VALUES ('I1')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO outbox (idempotency_key, payload, created_at) VALUES ('k1', x'7b7d', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO credentials (account_id, secret, profile, saved_at) VALUES ('kate.ellis', 's', x'7b7d', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, s.ClearCaches(ctx))

	counts := map[string]int{}
	for _, table := range []string{"products", "outbox", "credentials"} {
		var n int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n))
		counts[table] = n
	}
	assert.Equal(t, 0, counts["products"])
	assert.Equal(t, 1, counts["outbox"], "pending orders must survive a cache clear")
	assert.Equal(t, 1, counts["credentials"], "offline logins must survive a cache clear")
}

func TestClassify_StorageFull(t *testing.T) {
	err := Classify(assert.AnError)
	assert.NotErrorIs(t, err, common.ErrStorageFull)

	full := Classify(errFull{})
	assert.ErrorIs(t, full, common.ErrStorageFull)
}

type errFull struct{}

func (errFull) Error() string { return "database or disk is full (13)" }
