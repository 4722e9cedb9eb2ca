package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) InsertAll(ctx context.Context, items []models.Customer) error {
	query := `INSERT INTO customers (contact_id, company_name, contact_name, email)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(contact_id) DO UPDATE SET
			company_name = excluded.company_name,
			contact_name = excluded.contact_name,
			email = excluded.email`

	for i := range items {
		c := &items[i]
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid customer: %w", err)
		}
		_, err := r.db.ExecContext(ctx, query, c.ContactID, c.CompanyName, c.ContactName, c.Email)
		if err != nil {
			return fmt.Errorf("failed to upsert customer %s: %w", c.ContactID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, contactID string) (*models.Customer, error) {
	var c models.Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT contact_id, company_name, contact_name, email FROM customers WHERE contact_id = ?`,
		contactID).Scan(&c.ContactID, &c.CompanyName, &c.ContactName, &c.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer %s: %w", contactID, err)
	}
	return &c, nil
}

// Search scans and matches in Go for the same reason the product search
// does: SQLite LOWER() only folds ASCII.
func (r *SQLiteRepository) Search(ctx context.Context, text string) ([]models.Customer, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(text))
	result := make([]models.Customer, 0, len(all))
	for _, c := range all {
		if needle != "" {
			haystack := strings.ToLower(c.CompanyName + "\x00" + c.ContactName + "\x00" + c.Email)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		result = append(result, c)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i].CompanyName) < strings.ToLower(result[j].CompanyName)
	})
	return result, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT contact_id, company_name, contact_name, email FROM customers`)
	if err != nil {
		return nil, fmt.Errorf("failed to select customers: %w", err)
	}
	defer rows.Close()

	var result []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ContactID, &c.CompanyName, &c.ContactName, &c.Email); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM customers`); err != nil {
		return fmt.Errorf("failed to clear customers: %w", err)
	}
	return nil
}
