package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, cred models.OfflineCredential) error {
	savedAt := cred.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credentials (account_id, secret, profile, saved_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			secret = excluded.secret,
			profile = excluded.profile,
			saved_at = excluded.saved_at
	`, cred.AccountID, cred.Secret, cred.Profile, savedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save credential for %s: %w", cred.AccountID, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, accountID string) (*models.OfflineCredential, error) {
	var cred models.OfflineCredential
	var savedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT account_id, secret, profile, saved_at FROM credentials WHERE account_id = ?`,
		accountID).Scan(&cred.AccountID, &cred.Secret, &cred.Profile, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential for %s: %w", accountID, err)
	}
	cred.SavedAt, _ = time.Parse(time.RFC3339, savedAt)
	return &cred, nil
}

func (r *SQLiteRepository) ListAccountIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT account_id FROM credentials ORDER BY account_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}
