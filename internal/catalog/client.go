package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// API defines the catalog operations the console depends on.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	ListProducts(ctx context.Context, page int) ([]Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	CreateProduct(ctx context.Context, name, categoryID string) (Product, error)
	UpdateProduct(ctx context.Context, product Product) (Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Credentials carry the basic-auth pair for every request. They are injected
// at construction so tests can substitute their own.
type Credentials struct {
	Username string
	Password string
}

// Client talks to the catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	creds     Credentials
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent = "shopkeep/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given base URL.
func NewClient(baseURL string, creds Credentials) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		creds:   creds,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// ListProducts retrieves one page of products. A payload without a data field
// yields an empty slice rather than an error so the view stays renderable.
func (c *Client) ListProducts(ctx context.Context, page int) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if page < 1 {
		page = 1
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	rel := &url.URL{Path: "/api/products", RawQuery: values.Encode()}
	var payload productListResponse
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload, true); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// ListCategories retrieves the full category set.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/api/categories"}
	var payload categoryListResponse
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload, true); err != nil {
		return nil, err
	}
	return payload.Categories, nil
}

// CreateProduct posts a new product. The server replies with the created
// record; per the API contract the status code is not inspected, only
// transport and decode failures count.
func (c *Client) CreateProduct(ctx context.Context, name, categoryID string) (Product, error) {
	if c == nil {
		return Product{}, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/api/products"}
	body := productPayload{Name: name, CategoryID: categoryID}
	var created Product
	if err := c.do(ctx, http.MethodPost, rel, body, &created, false); err != nil {
		return Product{}, err
	}
	return created, nil
}

// UpdateProduct puts the full product record keyed by its id.
func (c *Client) UpdateProduct(ctx context.Context, product Product) (Product, error) {
	if c == nil {
		return Product{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(product.ID) == "" {
		return Product{}, fmt.Errorf("product id required")
	}
	rel := &url.URL{Path: "/api/products/" + url.PathEscape(product.ID)}
	body := productPayload{ID: product.ID, Name: product.Name, CategoryID: product.CategoryID}
	var updated Product
	if err := c.do(ctx, http.MethodPut, rel, body, &updated, false); err != nil {
		return Product{}, err
	}
	return updated, nil
}

// DeleteProduct removes a product. The response body is ignored.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("product id required")
	}
	rel := &url.URL{Path: "/api/products/" + url.PathEscape(id)}
	return c.do(ctx, http.MethodDelete, rel, nil, nil, false)
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body, dest any, checkStatus bool) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.creds.Username, c.creds.Password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if checkStatus && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("api url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
