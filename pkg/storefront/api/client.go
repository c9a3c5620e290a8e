// Package api is an HTTP client for the curio storefront backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when the backend reports an unknown identifier.
var ErrNotFound = errors.New("not found")

// Product is a catalog entry as served by the backend. The client holds
// read-only cached copies; the backend owns the data.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageKey    string          `json:"image,omitempty"`
	Sold        bool            `json:"sold"`
	Featured    bool            `json:"featured"`
	CreatedAt   string          `json:"created_at,omitempty"`
}

// ProductCreate is the payload for creating a product.
type ProductCreate struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageKey    string          `json:"image"`
	Featured    bool            `json:"featured,omitempty"`
}

// ProductUpdate is a partial update payload; nil fields are retained server-side.
type ProductUpdate struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
	ImageKey    *string          `json:"image,omitempty"`
	Sold        *bool            `json:"sold,omitempty"`
	Featured    *bool            `json:"featured,omitempty"`
}

// Client talks to the storefront backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	adminToken string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAdminToken sets the shared secret sent on mutating requests.
func WithAdminToken(token string) Option {
	return func(c *Client) { c.adminToken = token }
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchProducts retrieves the full catalog, newest first.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchFeatured retrieves the bounded unsold featured subset.
func (c *Client) FetchFeatured(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/api/featured", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchProduct retrieves a single product.
// Returns ErrNotFound if the identifier is unknown.
func (c *Client) FetchProduct(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a product. Requires the admin token.
func (c *Client) CreateProduct(ctx context.Context, create ProductCreate) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPost, "/api/products", create, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct applies a partial update. Requires the admin token.
// Returns ErrNotFound if the identifier is unknown.
func (c *Client) UpdateProduct(ctx context.Context, id int64, update ProductUpdate) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/products/%d", id), update, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// MarkSold flips a product's sold flag, used by the checkout flow.
func (c *Client) MarkSold(ctx context.Context, id int64) error {
	sold := true
	_, err := c.UpdateProduct(ctx, id, ProductUpdate{Sold: &sold})
	return err
}

// DeleteProduct removes a product and returns the deleted ID. Requires the admin token.
// Returns ErrNotFound if the identifier is unknown.
func (c *Client) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	var result struct {
		Success   bool  `json:"success"`
		DeletedID int64 `json:"deleted_id"`
	}
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil, &result); err != nil {
		return 0, err
	}
	return result.DeletedID, nil
}

// do performs a request against the backend, decoding a JSON response into out
// and mapping error bodies onto Go errors.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminToken != "" && method != http.MethodGet {
		req.Header.Set("X-Admin-Token", c.adminToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: %s", method, path, errorMessage(resp.Body, resp.StatusCode))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the backend's {"error": ...} body, falling back to the status code.
func errorMessage(body io.Reader, statusCode int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return http.StatusText(statusCode)
}
