package products

import (
	"context"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
)

// IndexField names a secondary lookup index on the product collection.
type IndexField string

const (
	BySKU     IndexField = "sku"
	ByBarcode IndexField = "barcode"
	ByBrand   IndexField = "brand"
)

type Repository interface {
	// InsertAll upserts the given records. Each record is validated before
	// it is written.
	InsertAll(ctx context.Context, items []models.Product) error

	GetByID(ctx context.Context, itemID string) (*models.Product, error)

	// FindByIndex returns the first record whose indexed field equals value.
	// The comparison is case-sensitive by stored value. Returns nil when no
	// record matches.
	FindByIndex(ctx context.Context, field IndexField, value string) (*models.Product, error)

	// UpdateStock patches the stock field of an existing record. Returns
	// false without error when the record is absent; a stock delta must
	// never fabricate a product.
	UpdateStock(ctx context.Context, itemID string, stock float64) (bool, error)

	// Search filters by canonical-brand substring and/or free text over
	// name, sku and barcode (both case-insensitive), sorted by name
	// ascending with missing names treated as empty.
	Search(ctx context.Context, q models.ProductSearch) ([]models.Product, error)

	GetAll(ctx context.Context) ([]models.Product, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
