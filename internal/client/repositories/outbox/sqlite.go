package outbox

import (
	"context"
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

func (r *SQLiteRepository) Enqueue(ctx context.Context, idempotencyKey string, payload []byte) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO outbox (idempotency_key, payload, created_at) VALUES (?, ?, ?)`,
		idempotencyKey, payload, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue mutation: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read assigned sequence: %w", err)
	}
	return seq, nil
}

func (r *SQLiteRepository) ListPending(ctx context.Context) ([]models.PendingMutation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, idempotency_key, payload, created_at FROM outbox ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending mutations: %w", err)
	}
	defer rows.Close()

	var result []models.PendingMutation
	for rows.Next() {
		var m models.PendingMutation
		var createdAt string
		if err := rows.Scan(&m.Seq, &m.IdempotencyKey, &m.Payload, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, seq int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM outbox WHERE seq = ?`, seq); err != nil {
		return fmt.Errorf("failed to remove mutation %d: %w", seq, err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count mutations: %w", err)
	}
	return n, nil
}
