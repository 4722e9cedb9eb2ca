package cli

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/fieldsales/internal/client/api"
	"github.com/dmitrijs2005/fieldsales/internal/client/config"
	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/client/services"
	"github.com/dmitrijs2005/fieldsales/internal/client/store"
	"github.com/dmitrijs2005/fieldsales/internal/common"
	"github.com/dmitrijs2005/fieldsales/internal/logging"
)

// Mode is the connectivity state shown in the prompt.
type Mode string

const (
	// ModeOffline: logged in against the cached credential, reads and order
	// queueing only.
	ModeOffline Mode = "offline"
	// ModeOnline: server reachable, full operation.
	ModeOnline Mode = "online"
	// ModeDisabled: not logged in at all.
	ModeDisabled Mode = "disabled"
)

// App wires configuration, the local store, API client, services and the
// interactive REPL.
type App struct {
	config *config.Config
	log    logging.Logger
	store  *store.Store

	authService services.AuthService
	catalog     *services.CatalogService
	customers   *services.CustomersService
	orders      *services.OrderService
	images      *services.ImageService
	orch        *services.Orchestrator

	// mu guards mode and profile: both are written by the REPL goroutine and
	// read by the background watchers.
	mu      sync.RWMutex
	mode    Mode
	profile *models.Profile

	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.Default())

	st := store.New(c.DatabasePath, log)
	if _, err := st.Open(context.Background()); err != nil {
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.ServerBaseURL, 30*time.Second)

	catalog := services.NewCatalogService(apiClient, st, log)
	customers := services.NewCustomersService(apiClient, st, log)
	orders := services.NewOrderService(apiClient, st, log)
	images := services.NewImageService(apiClient, st, log, c.ImageBatchSize, c.ImageBatchDelay)

	return &App{
		config:      c,
		log:         log,
		store:       st,
		authService: services.NewAuthService(apiClient, st, log),
		catalog:     catalog,
		customers:   customers,
		orders:      orders,
		images:      images,
		orch: services.NewOrchestrator(catalog, customers, orders, images,
			st, log, c.StalenessThreshold),
		mode:   ModeDisabled,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.log.Info(context.Background(), "connectivity mode changed", "mode", string(mode))
	}
}

func (a *App) currentMode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setProfile(p *models.Profile) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.profile = p
}

func (a *App) currentProfile() *models.Profile {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.profile
}

func (a *App) isLoggedIn() bool {
	return a.currentProfile() != nil
}

// Run starts the interactive session and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.store.Close()
	a.Root(ctx)
}

// StartOnlineStatusWatcher periodically probes server reachability and flips
// the connectivity mode. When connectivity comes back after an offline
// stretch it waits for the settle delay (so a flapping link does not trigger
// a storm of passes) and then kicks off a full sync, which also drains the
// order queue.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.currentMode() == ModeOnline {
					a.setMode(ModeOffline)
				}
				continue
			}
			if a.currentMode() == ModeOffline {
				a.setMode(ModeOnline)
				go a.afterReconnect(ctx)
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) afterReconnect(ctx context.Context) {
	select {
	case <-time.After(a.config.ReconnectSettleDelay):
	case <-ctx.Done():
		return
	}
	if a.currentMode() != ModeOnline {
		// The link flapped during the settle window.
		return
	}
	a.log.Info(ctx, "connectivity restored, starting full sync")
	if _, err := a.orch.RunFull(ctx); err != nil && !errors.Is(err, common.ErrSyncInFlight) {
		a.log.Warn(ctx, "automatic sync after reconnect failed", "error", err)
	}
}

// StartStockSyncWatcher runs the lightweight stock-only sync on a timer while
// the app is online. A zero interval disables it.
func (a *App) StartStockSyncWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if a.currentMode() != ModeOnline || !a.isLoggedIn() {
				continue
			}
			if _, err := a.orch.RunStock(ctx); err != nil && !errors.Is(err, common.ErrSyncInFlight) {
				a.log.Warn(ctx, "periodic stock sync failed", "error", err)
			}

		case <-ctx.Done():
			return
		}
	}
}
