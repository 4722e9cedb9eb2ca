package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/fieldsales/internal/brandx"
	"github.com/dmitrijs2005/fieldsales/internal/client/api"
	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/client/repositories/checkpoints"
	"github.com/dmitrijs2005/fieldsales/internal/client/repositories/images"
	"github.com/dmitrijs2005/fieldsales/internal/client/repositories/products"
	"github.com/dmitrijs2005/fieldsales/internal/client/store"
	"github.com/dmitrijs2005/fieldsales/internal/logging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ImageService is a read-through cache of product images with an optional
// bulk prefetch. Images are never evicted automatically.
type ImageService struct {
	client     api.Client
	store      *store.Store
	log        logging.Logger
	batchSize  int
	batchDelay time.Duration
}

func NewImageService(client api.Client, st *store.Store, log logging.Logger, batchSize int, batchDelay time.Duration) *ImageService {
	if batchSize <= 0 {
		batchSize = 5
	}
	return &ImageService{client: client, store: st, log: log, batchSize: batchSize, batchDelay: batchDelay}
}

// imageKey is the sku when present, falling back to the item identifier.
func imageKey(p *models.Product) string {
	if p.SKU != "" {
		return p.SKU
	}
	return p.ItemID
}

// Get returns the image for a product, fetching and caching it on first
// use. The second call for the same key is served from the store without a
// network fetch.
func (s *ImageService) Get(ctx context.Context, p *models.Product) (*models.ImageBlob, error) {
	db, err := s.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	repo := images.NewSQLiteRepository(db)

	key := imageKey(p)
	cached, err := repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	data, err := s.client.FetchImage(ctx, p.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image for %s: %w", key, err)
	}

	// The encoding must be fully resolved before the store write begins;
	// repositories only accept plain values.
	blob := &models.ImageBlob{
		Key:       key,
		Data:      base64.StdEncoding.EncodeToString(data),
		Size:      len(data),
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Put(ctx, blob); err != nil {
		return nil, store.Classify(err)
	}
	return blob, nil
}

// Prefetch downloads images for every locally mirrored product in the given
// brands that is not cached yet. Work proceeds in small batches with an
// inter-batch delay so the remote endpoint is never hammered; within a
// batch fetches run concurrently. Individual failures are logged and
// skipped; interrupting the pass is safe because it resumes from
// the not-yet-cached state next time. Returns the number of images fetched.
func (s *ImageService) Prefetch(ctx context.Context, brands []string) (int, error) {
	db, err := s.store.Open(ctx)
	if err != nil {
		return 0, err
	}
	productRepo := products.NewSQLiteRepository(db)
	imageRepo := images.NewSQLiteRepository(db)

	all, err := productRepo.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	keys, err := imageRepo.ListKeys(ctx)
	if err != nil {
		return 0, err
	}
	cached := make(map[string]bool, len(keys))
	for _, k := range keys {
		cached[k] = true
	}

	wanted := make(map[string]bool, len(brands))
	for _, b := range brands {
		wanted[brandx.Canonical(b)] = true
	}

	var candidates []models.Product
	for _, p := range all {
		if len(wanted) > 0 && !wanted[p.BrandCanonical] {
			continue
		}
		if cached[imageKey(&p)] {
			continue
		}
		candidates = append(candidates, p)
	}

	s.log.Info(ctx, "image prefetch starting", "candidates", len(candidates), "already_cached", len(keys))

	limiter := rate.NewLimiter(rate.Every(s.batchDelay), 1)
	var fetched atomic.Int64

	for start := 0; start < len(candidates); start += s.batchSize {
		if err := limiter.Wait(ctx); err != nil {
			return int(fetched.Load()), err
		}

		end := min(start+s.batchSize, len(candidates))

		g, gctx := errgroup.WithContext(ctx)
		for _, p := range candidates[start:end] {
			g.Go(func() error {
				data, err := s.client.FetchImage(gctx, p.ItemID)
				if err != nil {
					// Best-effort: a missing image never aborts the pass.
					s.log.Warn(gctx, "image fetch failed", "key", imageKey(&p), "error", err)
					return nil
				}
				blob := &models.ImageBlob{
					Key:       imageKey(&p),
					Data:      base64.StdEncoding.EncodeToString(data),
					Size:      len(data),
					CreatedAt: time.Now().UTC(),
				}
				if err := imageRepo.Put(gctx, blob); err != nil {
					s.log.Warn(gctx, "image cache write failed", "key", blob.Key, "error", err)
					return nil
				}
				fetched.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return int(fetched.Load()), err
		}

		// Persist a running count so an interrupted pass still reports
		// progress on the status screen.
		total, err := imageRepo.Count(ctx)
		if err == nil {
			_ = checkpoints.NewSQLiteRepository(db).Upsert(ctx, models.Checkpoint{
				Name:        models.CheckpointImages,
				LastSuccess: time.Now().UTC(),
				Count:       total,
			})
		}
	}

	s.log.Info(ctx, "image prefetch complete", "fetched", fetched.Load())
	return int(fetched.Load()), nil
}

// CachedCount reports how many images are cached.
func (s *ImageService) CachedCount(ctx context.Context) (int, error) {
	db, err := s.store.Open(ctx)
	if err != nil {
		return 0, err
	}
	return images.NewSQLiteRepository(db).Count(ctx)
}

// ClearCache removes every cached image.
func (s *ImageService) ClearCache(ctx context.Context) error {
	db, err := s.store.Open(ctx)
	if err != nil {
		return err
	}
	return images.NewSQLiteRepository(db).Clear(ctx)
}
