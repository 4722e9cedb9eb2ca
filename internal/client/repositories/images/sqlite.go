package images

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

func (r *SQLiteRepository) Get(ctx context.Context, key string) (*models.ImageBlob, error) {
	var blob models.ImageBlob
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT image_key, data, size, created_at FROM images WHERE image_key = ?`,
		key).Scan(&blob.Key, &blob.Data, &blob.Size, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image %s: %w", key, err)
	}
	blob.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &blob, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, blob *models.ImageBlob) error {
	if err := blob.Validate(); err != nil {
		return fmt.Errorf("invalid image: %w", err)
	}
	createdAt := blob.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO images (image_key, data, size, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(image_key) DO UPDATE SET
			data = excluded.data,
			size = excluded.size,
			created_at = excluded.created_at
	`, blob.Key, blob.Data, blob.Size, createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to put image %s: %w", blob.Key, err)
	}
	return nil
}

func (r *SQLiteRepository) ListKeys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT image_key FROM images`)
	if err != nil {
		return nil, fmt.Errorf("failed to list image keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM images`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM images`); err != nil {
		return fmt.Errorf("failed to clear images: %w", err)
	}
	return nil
}
