package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsales/internal/brandx"
	"github.com/dmitrijs2005/fieldsales/internal/client/api"
	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/client/repositories/checkpoints"
	"github.com/dmitrijs2005/fieldsales/internal/client/repositories/products"
	"github.com/dmitrijs2005/fieldsales/internal/client/store"
	"github.com/dmitrijs2005/fieldsales/internal/common"
	"github.com/dmitrijs2005/fieldsales/internal/dbx"
	"github.com/dmitrijs2005/fieldsales/internal/logging"
	"github.com/sethvargo/go-retry"
)

// maxCatalogPages caps the live-listing fallback, mirroring the feed
// generator's own safety limit.
const maxCatalogPages = 100

// CatalogService keeps the local product mirror in step with the remote
// catalog and answers local reads.
type CatalogService struct {
	client api.Client
	store  *store.Store
	log    logging.Logger
}

func NewCatalogService(client api.Client, st *store.Store, log logging.Logger) *CatalogService {
	return &CatalogService{client: client, store: st, log: log}
}

// SyncCatalog refreshes the entire product collection and returns the new
// record count. The snapshot feed is tried first because the live listing is
// expensive server-side; any feed failure (unreachable, malformed, empty)
// falls back to the paginated live query. Only after a complete successful
// fetch is the local collection replaced, so a failed pass leaves previous
// data untouched.
func (s *CatalogService) SyncCatalog(ctx context.Context) (int, error) {
	items, err := s.fetchCatalog(ctx)
	if err != nil {
		return 0, err
	}

	for i := range items {
		items[i].BrandCanonical = brandx.Canonical(items[i].Brand)
	}

	db, err := s.store.Open(ctx)
	if err != nil {
		return 0, err
	}

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := products.NewSQLiteRepository(tx)
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		if err := repo.InsertAll(ctx, items); err != nil {
			return err
		}
		return checkpoints.NewSQLiteRepository(tx).Upsert(ctx, models.Checkpoint{
			Name:        models.CheckpointCatalog,
			LastSuccess: time.Now().UTC(),
			Count:       len(items),
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to store catalog: %w", store.Classify(err))
	}

	s.log.Info(ctx, "catalog sync complete", "products", len(items))
	return len(items), nil
}

func (s *CatalogService) fetchCatalog(ctx context.Context) ([]models.Product, error) {
	feed, err := s.client.FetchFeed(ctx)
	if err == nil && len(feed.Products) > 0 {
		s.log.Info(ctx, "using catalog snapshot", "generated_at", feed.GeneratedAt, "products", len(feed.Products))
		return feed.Products, nil
	}
	if err != nil {
		s.log.Warn(ctx, "snapshot feed unavailable, falling back to live listing", "error", err)
	} else {
		s.log.Warn(ctx, "snapshot feed empty, falling back to live listing")
	}
	return s.fetchAllPages(ctx)
}

// fetchAllPages walks the paginated live listing. Individual page fetches
// are retried with backoff on connectivity errors; any other failure aborts
// the pass.
func (s *CatalogService) fetchAllPages(ctx context.Context) ([]models.Product, error) {
	var all []models.Product

	for page := 1; page <= maxCatalogPages; page++ {
		var result *api.ProductPage

		backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			p, err := s.client.FetchProductsPage(ctx, page)
			if err != nil {
				if errors.Is(err, common.ErrUnavailable) {
					return retry.RetryableError(err)
				}
				return err
			}
			result = p
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch catalog page %d: %w", page, err)
		}

		all = append(all, result.Products...)
		if !result.HasMore {
			return all, nil
		}
	}

	s.log.Warn(ctx, "catalog page limit reached", "pages", maxCatalogPages)
	return all, nil
}

// SyncStock applies a compact stock delta to products already present
// locally. Deltas for unknown items are skipped, never inserted; misses are
// best-effort by design. Returns the number of records patched.
func (s *CatalogService) SyncStock(ctx context.Context) (int, error) {
	db, err := s.store.Open(ctx)
	if err != nil {
		return 0, err
	}

	var since time.Time
	if cp, err := checkpoints.NewSQLiteRepository(db).Get(ctx, models.CheckpointStock); err == nil && cp != nil {
		since = cp.LastSuccess
	}

	updates, err := s.client.FetchStockDeltas(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch stock deltas: %w", err)
	}

	var patched, skipped int
	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := products.NewSQLiteRepository(tx)
		for _, u := range updates {
			ok, err := repo.UpdateStock(ctx, u.ItemID, u.Stock)
			if err != nil {
				return err
			}
			if ok {
				patched++
			} else {
				skipped++
			}
		}
		return checkpoints.NewSQLiteRepository(tx).Upsert(ctx, models.Checkpoint{
			Name:        models.CheckpointStock,
			LastSuccess: time.Now().UTC(),
			Count:       patched,
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to apply stock deltas: %w", store.Classify(err))
	}

	s.log.Info(ctx, "stock sync complete", "patched", patched, "skipped", skipped)
	return patched, nil
}

// Search queries the local mirror.
func (s *CatalogService) Search(ctx context.Context, q models.ProductSearch) ([]models.Product, error) {
	db, err := s.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	return products.NewSQLiteRepository(db).Search(ctx, q)
}

// FindByIndex looks a product up by one of the secondary indexes.
func (s *CatalogService) FindByIndex(ctx context.Context, field products.IndexField, value string) (*models.Product, error) {
	db, err := s.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	return products.NewSQLiteRepository(db).FindByIndex(ctx, field, value)
}

// Count reports the size of the local mirror.
func (s *CatalogService) Count(ctx context.Context) (int, error) {
	db, err := s.store.Open(ctx)
	if err != nil {
		return 0, err
	}
	return products.NewSQLiteRepository(db).Count(ctx)
}
