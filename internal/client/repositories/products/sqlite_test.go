package products

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/dbx"
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
CREATE TABLE products (
  item_id TEXT PRIMARY KEY,
  sku TEXT NOT NULL DEFAULT '',
  barcode TEXT NOT NULL DEFAULT '',
  brand TEXT NOT NULL DEFAULT '',
  brand_canonical TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  price REAL NOT NULL DEFAULT 0,
  stock REAL NOT NULL DEFAULT 0,
  unit TEXT NOT NULL DEFAULT '',
  pack_qty INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT '',
  created_time TEXT NOT NULL DEFAULT ''
);`)
	require.NoError(t, err)
	return db
}

func sampleProducts() []models.Product {
	return []models.Product{
		{ItemID: "I1", SKU: "GL10", Barcode: "400100", Brand: "Rader", BrandCanonical: "Räder", Name: "Glass Light", Price: 4.5, Stock: 12},
		{ItemID: "I2", SKU: "MF20", Barcode: "400200", Brand: "My Flame", BrandCanonical: "My Flame", Name: "Candle Amber", Price: 9.95, Stock: 3},
		{ItemID: "I3", SKU: "GL11", Barcode: "400101", Brand: "Rader GmbH", BrandCanonical: "Räder", Price: 2.5, Stock: 0},
	}
}

func TestInsertAll_AndGetByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.InsertAll(ctx, sampleProducts()))

	p, err := r.GetByID(ctx, "I2")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Candle Amber", p.Name)
	assert.Equal(t, 9.95, p.Price)

	missing, err := r.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInsertAll_RejectsInvalidRecord(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	err := r.InsertAll(ctx, []models.Product{{Name: "no id"}})
	assert.Error(t, err)
}

func TestInsertAll_UpsertsByPrimaryKey(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.InsertAll(ctx, sampleProducts()))
	require.NoError(t, r.InsertAll(ctx, []models.Product{{ItemID: "I1", Name: "Glass Light v2", Price: 5}}))

	p, err := r.GetByID(ctx, "I1")
	require.NoError(t, err)
	assert.Equal(t, "Glass Light v2", p.Name)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFindByIndex(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, r.InsertAll(ctx, sampleProducts()))

	bySKU, err := r.FindByIndex(ctx, BySKU, "MF20")
	require.NoError(t, err)
	require.NotNil(t, bySKU)
	assert.Equal(t, "I2", bySKU.ItemID)

	byBarcode, err := r.FindByIndex(ctx, ByBarcode, "400101")
	require.NoError(t, err)
	require.NotNil(t, byBarcode)
	assert.Equal(t, "I3", byBarcode.ItemID)

	// Two products share the canonical brand; first match wins.
	byBrand, err := r.FindByIndex(ctx, ByBrand, "Räder")
	require.NoError(t, err)
	require.NotNil(t, byBrand)
	assert.Equal(t, "I1", byBrand.ItemID)

	// Index lookups are case-sensitive by stored value.
	miss, err := r.FindByIndex(ctx, BySKU, "mf20")
	require.NoError(t, err)
	assert.Nil(t, miss)

	_, err = r.FindByIndex(ctx, IndexField("price"), "1")
	assert.Error(t, err)
}

func TestUpdateStock(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, r.InsertAll(ctx, sampleProducts()))

	ok, err := r.UpdateStock(ctx, "I1", 99)
	require.NoError(t, err)
	assert.True(t, ok)

	p, err := r.GetByID(ctx, "I1")
	require.NoError(t, err)
	assert.Equal(t, 99.0, p.Stock)
	assert.Equal(t, "Glass Light", p.Name, "stock patch must not touch other fields")

	ok, err = r.UpdateStock(ctx, "ghost", 5)
	require.NoError(t, err)
	assert.False(t, ok, "absent item must be skipped, not created")

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSearch(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, r.InsertAll(ctx, sampleProducts()))

	t.Run("by brand substring, case-insensitive", func(t *testing.T) {
		got, err := r.Search(ctx, models.ProductSearch{Brand: "räder"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		// Sorted by name ascending, missing name first (empty string).
		assert.Equal(t, "I3", got[0].ItemID)
		assert.Equal(t, "I1", got[1].ItemID)
	})

	t.Run("by free text over name/sku/barcode", func(t *testing.T) {
		got, err := r.Search(ctx, models.ProductSearch{Text: "candle"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "I2", got[0].ItemID)

		got, err = r.Search(ctx, models.ProductSearch{Text: "gl1"})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = r.Search(ctx, models.ProductSearch{Text: "400200"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("brand and text combined", func(t *testing.T) {
		got, err := r.Search(ctx, models.ProductSearch{Brand: "Räder", Text: "light"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "I1", got[0].ItemID)
	})

	t.Run("no filters returns everything", func(t *testing.T) {
		got, err := r.Search(ctx, models.ProductSearch{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, r.InsertAll(ctx, sampleProducts()))

	require.NoError(t, r.Clear(ctx))
	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRepository_WorksInsideTransaction(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := NewSQLiteRepository(tx)
		if err := r.Clear(ctx); err != nil {
			return err
		}
		return r.InsertAll(ctx, sampleProducts())
	})
	require.NoError(t, err)

	n, err := NewSQLiteRepository(db).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
