// Package api implements the client for the remote ordering backend: a
// JSON/HTTP API plus a pre-generated catalog snapshot feed.
package api

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
)

// LoginResult carries the bearer token and profile returned by the server.
type LoginResult struct {
	Token   string
	Profile models.Profile
}

// Feed is the pre-computed catalog snapshot. It is regenerated remotely on a
// schedule and may lag the live system by hours.
type Feed struct {
	GeneratedAt   string
	TotalProducts int
	Products      []models.Product
}

// ProductPage is one page of the live (expensive) product listing.
type ProductPage struct {
	Products []models.Product
	Page     int
	HasMore  bool
}

// CustomerPage is one page of the customer listing.
type CustomerPage struct {
	Customers []models.Customer
	Page      int
	HasMore   bool
}

// OrderAck is the server's acceptance of an order submission.
type OrderAck struct {
	OrderID     string
	OrderNumber string
}

// Client is the remote API surface consumed by the sync layer. Connectivity
// failures are reported as common.ErrUnavailable; remote rejections as
// common.ErrUnauthorized or common.ErrRemote; undecodable responses as
// common.ErrMalformedPayload.
type Client interface {
	// Login authenticates with an account id and PIN.
	Login(ctx context.Context, accountID string, pin []byte) (*LoginResult, error)

	// Ping probes server liveness.
	Ping(ctx context.Context) error

	// SetToken installs the bearer credential used by all other calls.
	SetToken(token string)

	// FetchFeed downloads the catalog snapshot.
	FetchFeed(ctx context.Context) (*Feed, error)

	// FetchProductsPage queries the live catalog listing, one page at a time.
	FetchProductsPage(ctx context.Context, page int) (*ProductPage, error)

	// FetchStockDeltas downloads the compact stock changes since the given
	// time (zero time means everything).
	FetchStockDeltas(ctx context.Context, since time.Time) ([]models.StockUpdate, error)

	// FetchCustomersPage queries the customer listing.
	FetchCustomersPage(ctx context.Context, page int) (*CustomerPage, error)

	// FetchImage downloads the binary image for one item.
	FetchImage(ctx context.Context, itemID string) ([]byte, error)

	// SubmitOrder posts a serialized order payload. The idempotency key is
	// sent with every attempt so a replayed submission carries the same key.
	SubmitOrder(ctx context.Context, idempotencyKey string, payload []byte) (*OrderAck, error)
}
