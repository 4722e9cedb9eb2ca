package checkpoints

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

func (r *SQLiteRepository) Get(ctx context.Context, name string) (*models.Checkpoint, error) {
	var cp models.Checkpoint
	var lastSuccess string
	err := r.db.QueryRowContext(ctx,
		`SELECT name, last_success, count FROM checkpoints WHERE name = ?`,
		name).Scan(&cp.Name, &lastSuccess, &cp.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checkpoint %s: %w", name, err)
	}
	cp.LastSuccess, _ = time.Parse(time.RFC3339, lastSuccess)
	return &cp, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, cp models.Checkpoint) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO checkpoints (name, last_success, count) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			last_success = excluded.last_success,
			count = excluded.count
	`, cp.Name, cp.LastSuccess.UTC().Format(time.RFC3339), cp.Count)
	if err != nil {
		return fmt.Errorf("failed to upsert checkpoint %s: %w", cp.Name, err)
	}
	return nil
}

func (r *SQLiteRepository) All(ctx context.Context) ([]models.Checkpoint, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, last_success, count FROM checkpoints ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	defer rows.Close()

	var result []models.Checkpoint
	for rows.Next() {
		var cp models.Checkpoint
		var lastSuccess string
		if err := rows.Scan(&cp.Name, &lastSuccess, &cp.Count); err != nil {
			return nil, err
		}
		cp.LastSuccess, _ = time.Parse(time.RFC3339, lastSuccess)
		result = append(result, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
