package credentials

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE credentials (
  account_id TEXT PRIMARY KEY,
  secret TEXT NOT NULL,
  profile BLOB NOT NULL,
  saved_at TEXT NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSaveAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	cred := models.OfflineCredential{
		AccountID: "kate.ellis",
		Secret:    "b2JmdXNjYXRlZA==",
		Profile:   []byte(`{"name":"Kate Ellis"}`),
	}
	require.NoError(t, r.Save(ctx, cred))

	got, err := r.Get(ctx, "kate.ellis")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cred.Secret, got.Secret)
	assert.JSONEq(t, `{"name":"Kate Ellis"}`, string(got.Profile))
	assert.False(t, got.SavedAt.IsZero())

	missing, err := r.Get(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSave_ReplacesExisting(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, models.OfflineCredential{AccountID: "kate.ellis", Secret: "djE=", Profile: []byte(`{}`)}))
	require.NoError(t, r.Save(ctx, models.OfflineCredential{AccountID: "kate.ellis", Secret: "djI=", Profile: []byte(`{}`)}))

	got, err := r.Get(ctx, "kate.ellis")
	require.NoError(t, err)
	assert.Equal(t, "djI=", got.Secret)

	ids, err := r.ListAccountIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kate.ellis"}, ids)
}

func TestListAccountIDsAndClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, models.OfflineCredential{AccountID: "nick.barr", Secret: "cw==", Profile: []byte(`{}`)}))
	require.NoError(t, r.Save(ctx, models.OfflineCredential{AccountID: "kate.ellis", Secret: "cw==", Profile: []byte(`{}`)}))

	ids, err := r.ListAccountIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kate.ellis", "nick.barr"}, ids)

	require.NoError(t, r.Clear(ctx))
	ids, err = r.ListAccountIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
