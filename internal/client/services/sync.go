package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/client/repositories/checkpoints"
	"github.com/dmitrijs2005/fieldsales/internal/client/store"
	"github.com/dmitrijs2005/fieldsales/internal/common"
	"github.com/dmitrijs2005/fieldsales/internal/logging"
)

// SyncKind identifies one orchestrated sync flavour.
type SyncKind string

const (
	SyncCatalog   SyncKind = "catalog"
	SyncCustomers SyncKind = "customers"
	SyncStock     SyncKind = "stock"
	SyncImages    SyncKind = "images"
	SyncFull      SyncKind = "full"
	SyncDrain     SyncKind = "drain"
)

// FullSyncResult aggregates one full pass.
type FullSyncResult struct {
	Products  int
	Customers int
	Drain     DrainResult
}

// SyncAdvice is the startup assessment shown before prompting for a sync.
type SyncAdvice struct {
	SuggestSync bool
	Reason      string
}

// Orchestrator serializes sync passes. At most one pass of a given kind
// runs at a time; a second trigger while one is in flight returns
// common.ErrSyncInFlight and does nothing. In-flight work is never
// cancelled; superseded results are simply discarded by the caller.
type Orchestrator struct {
	catalog   *CatalogService
	customers *CustomersService
	orders    *OrderService
	images    *ImageService
	store     *store.Store
	log       logging.Logger

	staleAfter time.Duration

	mu      sync.Mutex
	running map[SyncKind]bool
}

func NewOrchestrator(
	catalog *CatalogService,
	customers *CustomersService,
	orders *OrderService,
	images *ImageService,
	st *store.Store,
	log logging.Logger,
	staleAfter time.Duration,
) *Orchestrator {
	return &Orchestrator{
		catalog:    catalog,
		customers:  customers,
		orders:     orders,
		images:     images,
		store:      st,
		log:        log,
		staleAfter: staleAfter,
		running:    make(map[SyncKind]bool),
	}
}

func (o *Orchestrator) tryAcquire(kind SyncKind) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running[kind] {
		return false
	}
	o.running[kind] = true
	return true
}

func (o *Orchestrator) release(kind SyncKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.running, kind)
}

// Running reports whether a pass of the given kind is in flight.
func (o *Orchestrator) Running(kind SyncKind) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running[kind]
}

// RunCatalog executes a full catalog refresh.
func (o *Orchestrator) RunCatalog(ctx context.Context) (int, error) {
	if !o.tryAcquire(SyncCatalog) {
		return 0, common.ErrSyncInFlight
	}
	defer o.release(SyncCatalog)
	return o.catalog.SyncCatalog(ctx)
}

// RunCustomers executes a customer refresh.
func (o *Orchestrator) RunCustomers(ctx context.Context) (int, error) {
	if !o.tryAcquire(SyncCustomers) {
		return 0, common.ErrSyncInFlight
	}
	defer o.release(SyncCustomers)
	return o.customers.SyncCustomers(ctx)
}

// RunStock executes the lightweight stock-only sync.
func (o *Orchestrator) RunStock(ctx context.Context) (int, error) {
	if !o.tryAcquire(SyncStock) {
		return 0, common.ErrSyncInFlight
	}
	defer o.release(SyncStock)
	return o.catalog.SyncStock(ctx)
}

// RunImages executes the brand-filtered image prefetch.
func (o *Orchestrator) RunImages(ctx context.Context, brands []string) (int, error) {
	if !o.tryAcquire(SyncImages) {
		return 0, common.ErrSyncInFlight
	}
	defer o.release(SyncImages)
	return o.images.Prefetch(ctx, brands)
}

// RunDrain replays the mutation queue.
func (o *Orchestrator) RunDrain(ctx context.Context) (*DrainResult, error) {
	if !o.tryAcquire(SyncDrain) {
		return nil, common.ErrSyncInFlight
	}
	defer o.release(SyncDrain)
	return o.orders.Drain(ctx)
}

// RunFull refreshes catalog and customers, then drains the queue. Each leg
// failing does not abort the others: cached data stays intact on a failed
// refresh, and the drain is worth attempting regardless.
func (o *Orchestrator) RunFull(ctx context.Context) (*FullSyncResult, error) {
	if !o.tryAcquire(SyncFull) {
		return nil, common.ErrSyncInFlight
	}
	defer o.release(SyncFull)

	result := &FullSyncResult{}
	var firstErr error

	if n, err := o.RunCatalog(ctx); err != nil {
		o.log.Error(ctx, "catalog refresh failed", "error", err)
		firstErr = err
	} else {
		result.Products = n
	}

	if n, err := o.RunCustomers(ctx); err != nil {
		o.log.Error(ctx, "customer refresh failed", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	} else {
		result.Customers = n
	}

	if drain, err := o.RunDrain(ctx); err != nil {
		o.log.Error(ctx, "queue drain failed", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	} else {
		result.Drain = *drain
	}

	return result, firstErr
}

// Checkpoints returns the persisted per-kind sync checkpoints.
func (o *Orchestrator) Checkpoints(ctx context.Context) ([]models.Checkpoint, error) {
	db, err := o.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	return checkpoints.NewSQLiteRepository(db).All(ctx)
}

// Advice inspects the local state at startup and recommends a sync when the
// mirror is empty or stale.
func (o *Orchestrator) Advice(ctx context.Context) (*SyncAdvice, error) {
	productCount, err := o.catalog.Count(ctx)
	if err != nil {
		return nil, err
	}
	if productCount == 0 {
		return &SyncAdvice{SuggestSync: true, Reason: "no products cached"}, nil
	}

	customerCount, err := o.customers.Count(ctx)
	if err != nil {
		return nil, err
	}
	if customerCount == 0 {
		return &SyncAdvice{SuggestSync: true, Reason: "no customers cached"}, nil
	}

	db, err := o.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	cp, err := checkpoints.NewSQLiteRepository(db).Get(ctx, models.CheckpointCatalog)
	if err != nil {
		return nil, err
	}
	if cp == nil || time.Since(cp.LastSuccess) > o.staleAfter {
		return &SyncAdvice{SuggestSync: true, Reason: "catalog data is stale"}, nil
	}

	return &SyncAdvice{}, nil
}
