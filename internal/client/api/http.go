package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/common"
)

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the given base URL, e.g.
// "https://orders.example.com".
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do executes one request and returns the raw body. Transport-level
// failures map to ErrUnavailable, HTTP-level rejections to
// ErrUnauthorized/ErrRemote.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body []byte, headers map[string]string) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Join(common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(common.ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", common.ErrUnauthorized, resp.Status)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: %s: %s", common.ErrRemote, resp.Status, truncate(data, 200))
	}
	return data, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, query, nil, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformedPayload, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

// productDTO matches the wire shape shared by the feed and the live listing.
type productDTO struct {
	ItemID      string  `json:"item_id"`
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	EAN         string  `json:"ean"`
	Description string  `json:"description"`
	Rate        float64 `json:"rate"`
	StockOnHand float64 `json:"stock_on_hand"`
	Brand       string  `json:"brand"`
	Unit        string  `json:"unit"`
	PackQty     int     `json:"pack_qty"`
	Status      string  `json:"status"`
	CreatedTime string  `json:"created_time"`
}

func (d productDTO) toModel() models.Product {
	return models.Product{
		ItemID:      d.ItemID,
		SKU:         d.SKU,
		Barcode:     d.EAN,
		Brand:       d.Brand,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Rate,
		Stock:       d.StockOnHand,
		Unit:        d.Unit,
		PackQty:     d.PackQty,
		Status:      d.Status,
		CreatedTime: d.CreatedTime,
	}
}

func toModels(dtos []productDTO) []models.Product {
	result := make([]models.Product, 0, len(dtos))
	for _, d := range dtos {
		result = append(result, d.toModel())
	}
	return result
}

func (c *HTTPClient) Login(ctx context.Context, accountID string, pin []byte) (*LoginResult, error) {
	body, err := json.Marshal(map[string]string{"agent_id": accountID, "pin": string(pin)})
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		AccessToken string   `json:"access_token"`
		AgentName   string   `json:"agent_name"`
		Brands      []string `json:"brands"`
		IsAdmin     bool     `json:"is_admin"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedPayload, err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", common.ErrMalformedPayload)
	}

	return &LoginResult{
		Token: resp.AccessToken,
		Profile: models.Profile{
			Name:   resp.AgentName,
			Brands: resp.Brands,
			Admin:  resp.IsAdmin,
			Token:  resp.AccessToken,
		},
	}, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, nil)
	return err
}

func (c *HTTPClient) FetchFeed(ctx context.Context) (*Feed, error) {
	var resp struct {
		GeneratedAt   string       `json:"generated_at"`
		TotalProducts int          `json:"total_products"`
		Products      []productDTO `json:"products"`
	}
	if err := c.getJSON(ctx, "/api/feed/products", nil, &resp); err != nil {
		return nil, err
	}
	return &Feed{
		GeneratedAt:   resp.GeneratedAt,
		TotalProducts: resp.TotalProducts,
		Products:      toModels(resp.Products),
	}, nil
}

func (c *HTTPClient) FetchProductsPage(ctx context.Context, page int) (*ProductPage, error) {
	query := url.Values{"page": {strconv.Itoa(page)}}

	var resp struct {
		Products []productDTO `json:"products"`
		Page     int          `json:"page"`
		HasMore  bool         `json:"has_more"`
	}
	if err := c.getJSON(ctx, "/api/products", query, &resp); err != nil {
		return nil, err
	}
	return &ProductPage{Products: toModels(resp.Products), Page: resp.Page, HasMore: resp.HasMore}, nil
}

func (c *HTTPClient) FetchStockDeltas(ctx context.Context, since time.Time) ([]models.StockUpdate, error) {
	query := url.Values{}
	if !since.IsZero() {
		query.Set("since", since.UTC().Format(time.RFC3339))
	}

	var resp struct {
		Updates []struct {
			ItemID      string  `json:"item_id"`
			StockOnHand float64 `json:"stock_on_hand"`
		} `json:"updates"`
	}
	if err := c.getJSON(ctx, "/api/products/stock", query, &resp); err != nil {
		return nil, err
	}

	updates := make([]models.StockUpdate, 0, len(resp.Updates))
	for _, u := range resp.Updates {
		updates = append(updates, models.StockUpdate{ItemID: u.ItemID, Stock: u.StockOnHand})
	}
	return updates, nil
}

func (c *HTTPClient) FetchCustomersPage(ctx context.Context, page int) (*CustomerPage, error) {
	query := url.Values{"page": {strconv.Itoa(page)}}

	var resp struct {
		Customers []struct {
			ContactID   string `json:"contact_id"`
			CompanyName string `json:"company_name"`
			ContactName string `json:"contact_name"`
			Email       string `json:"email"`
		} `json:"customers"`
		Page    int  `json:"page"`
		HasMore bool `json:"has_more"`
	}
	if err := c.getJSON(ctx, "/api/customers", query, &resp); err != nil {
		return nil, err
	}

	customers := make([]models.Customer, 0, len(resp.Customers))
	for _, dto := range resp.Customers {
		customers = append(customers, models.Customer{
			ContactID:   dto.ContactID,
			CompanyName: dto.CompanyName,
			ContactName: dto.ContactName,
			Email:       dto.Email,
		})
	}
	return &CustomerPage{Customers: customers, Page: resp.Page, HasMore: resp.HasMore}, nil
}

func (c *HTTPClient) FetchImage(ctx context.Context, itemID string) ([]byte, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(itemID)+"/image", nil, nil, nil)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image body", common.ErrMalformedPayload)
	}
	return data, nil
}

func (c *HTTPClient) SubmitOrder(ctx context.Context, idempotencyKey string, payload []byte) (*OrderAck, error) {
	headers := map[string]string{"Idempotency-Key": idempotencyKey}
	data, err := c.do(ctx, http.MethodPost, "/api/orders", nil, payload, headers)
	if err != nil {
		return nil, err
	}

	var resp struct {
		SalesorderID     string `json:"salesorder_id"`
		SalesorderNumber string `json:"salesorder_number"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedPayload, err)
	}
	return &OrderAck{OrderID: resp.SalesorderID, OrderNumber: resp.SalesorderNumber}, nil
}
