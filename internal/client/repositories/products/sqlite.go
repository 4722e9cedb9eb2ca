package products

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

// SQLiteRepository implements Repository over a DBTX, so the same code runs
// against *sql.DB or inside a transaction.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const productColumns = `item_id, sku, barcode, brand, brand_canonical, name, description, price, stock, unit, pack_qty, status, created_time`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ItemID, &p.SKU, &p.Barcode, &p.Brand, &p.BrandCanonical,
		&p.Name, &p.Description, &p.Price, &p.Stock, &p.Unit, &p.PackQty, &p.Status, &p.CreatedTime)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteRepository) InsertAll(ctx context.Context, items []models.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			sku = excluded.sku,
			barcode = excluded.barcode,
			brand = excluded.brand,
			brand_canonical = excluded.brand_canonical,
			name = excluded.name,
			description = excluded.description,
			price = excluded.price,
			stock = excluded.stock,
			unit = excluded.unit,
			pack_qty = excluded.pack_qty,
			status = excluded.status,
			created_time = excluded.created_time`

	for i := range items {
		p := &items[i]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid product: %w", err)
		}
		_, err := r.db.ExecContext(ctx, query,
			p.ItemID, p.SKU, p.Barcode, p.Brand, p.BrandCanonical, p.Name,
			p.Description, p.Price, p.Stock, p.Unit, p.PackQty, p.Status, p.CreatedTime)
		if err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", p.ItemID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, itemID string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE item_id = ?`, itemID)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", itemID, err)
	}
	return p, nil
}

func (r *SQLiteRepository) FindByIndex(ctx context.Context, field IndexField, value string) (*models.Product, error) {
	var column string
	switch field {
	case BySKU:
		column = "sku"
	case ByBarcode:
		column = "barcode"
	case ByBrand:
		column = "brand_canonical"
	default:
		return nil, fmt.Errorf("unknown index field %q", field)
	}

	// Duplicates are allowed on secondary indexes; first match wins.
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE `+column+` = ? ORDER BY rowid LIMIT 1`, value)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product by %s: %w", column, err)
	}
	return p, nil
}

func (r *SQLiteRepository) UpdateStock(ctx context.Context, itemID string, stock float64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET stock = ? WHERE item_id = ?`, stock, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to update stock for %s: %w", itemID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Search runs as a full scan with matching in Go: SQLite's LOWER() is
// ASCII-only, which breaks on brand names like "Räder". Collections are
// bounded mirrors of the feed, so a scan stays cheap.
func (r *SQLiteRepository) Search(ctx context.Context, q models.ProductSearch) ([]models.Product, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	brand := strings.ToLower(strings.TrimSpace(q.Brand))
	text := strings.ToLower(strings.TrimSpace(q.Text))

	result := make([]models.Product, 0, len(all))
	for _, p := range all {
		if brand != "" && !strings.Contains(strings.ToLower(p.BrandCanonical), brand) {
			continue
		}
		if text != "" {
			haystack := strings.ToLower(p.Name + "\x00" + p.SKU + "\x00" + p.Barcode)
			if !strings.Contains(haystack, text) {
				continue
			}
		}
		result = append(result, p)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products`)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	defer rows.Close()

	var result []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	return nil
}
