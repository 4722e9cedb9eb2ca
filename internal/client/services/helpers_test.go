package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/fieldsales/internal/client/api"
	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/client/store"
	"github.com/dmitrijs2005/fieldsales/internal/common"
	"github.com/dmitrijs2005/fieldsales/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.Default())
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "fieldsales.db")
	s := store.New(dsn, testLogger())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fakeClient implements api.Client with per-call hooks and counters. A nil
// hook behaves as an unreachable server.
type fakeClient struct {
	loginFn     func(accountID string, pin []byte) (*api.LoginResult, error)
	feedFn      func() (*api.Feed, error)
	pageFn      func(page int) (*api.ProductPage, error)
	stockFn     func(since time.Time) ([]models.StockUpdate, error)
	customersFn func(page int) (*api.CustomerPage, error)
	imageFn     func(itemID string) ([]byte, error)
	submitFn    func(key string, payload []byte) (*api.OrderAck, error)
	pingErr     error

	token        string
	feedCalls    int
	pageCalls    int
	imageCalls   int
	submitCalls  int
	submittedKey []string
}

func (f *fakeClient) Login(ctx context.Context, accountID string, pin []byte) (*api.LoginResult, error) {
	if f.loginFn == nil {
		return nil, common.ErrUnavailable
	}
	return f.loginFn(accountID, pin)
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeClient) SetToken(token string) { f.token = token }

func (f *fakeClient) FetchFeed(ctx context.Context) (*api.Feed, error) {
	f.feedCalls++
	if f.feedFn == nil {
		return nil, common.ErrUnavailable
	}
	return f.feedFn()
}

func (f *fakeClient) FetchProductsPage(ctx context.Context, page int) (*api.ProductPage, error) {
	f.pageCalls++
	if f.pageFn == nil {
		return nil, common.ErrUnavailable
	}
	return f.pageFn(page)
}

func (f *fakeClient) FetchStockDeltas(ctx context.Context, since time.Time) ([]models.StockUpdate, error) {
	if f.stockFn == nil {
		return nil, common.ErrUnavailable
	}
	return f.stockFn(since)
}

func (f *fakeClient) FetchCustomersPage(ctx context.Context, page int) (*api.CustomerPage, error) {
	if f.customersFn == nil {
		return nil, common.ErrUnavailable
	}
	return f.customersFn(page)
}

func (f *fakeClient) FetchImage(ctx context.Context, itemID string) ([]byte, error) {
	f.imageCalls++
	if f.imageFn == nil {
		return nil, common.ErrUnavailable
	}
	return f.imageFn(itemID)
}

func (f *fakeClient) SubmitOrder(ctx context.Context, idempotencyKey string, payload []byte) (*api.OrderAck, error) {
	f.submitCalls++
	f.submittedKey = append(f.submittedKey, idempotencyKey)
	if f.submitFn == nil {
		return nil, common.ErrUnavailable
	}
	return f.submitFn(idempotencyKey, payload)
}

func testProducts() []models.Product {
	return []models.Product{
		{ItemID: "I1", SKU: "SKU-1", Brand: "Räder", Name: "Candle Holder", Price: 12.5, Stock: 4, Status: "active"},
		{ItemID: "I2", SKU: "SKU-2", Brand: "remember", Name: "Board Game", Price: 30, Stock: 0, Status: "active"},
		{ItemID: "I3", SKU: "SKU-3", Brand: "GEFU", Name: "Spiralizer", Price: 25, Stock: 9, Status: "active"},
	}
}

func testOrder() *models.OrderPayload {
	return &models.OrderPayload{
		CustomerID: "C1",
		Lines:      []models.OrderLine{{SKU: "SKU-1", Qty: 2}},
	}
}
