package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// Fetcher defines the catalog operations consumed by the rest of Shelf.
// It is implemented by *Client and can be faked in tests.
type Fetcher interface {
	FetchAllItems(ctx context.Context) ([]Product, error)
	FetchItemByID(ctx context.Context, id int) (Product, error)
	FetchCategories(ctx context.Context) ([]Category, error)
	FetchItemsByCategory(ctx context.Context, category string) ([]Product, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the catalog REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
	limiter   *rate.Limiter
	telemetry *telemetry
}

// Options tune a Client. The zero value is usable.
type Options struct {
	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
	// Timeout bounds each request. Zero leaves requests unbounded.
	Timeout time.Duration
	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64
	Logger            *slog.Logger
	TracerProvider    trace.TracerProvider
	MeterProvider     metric.MeterProvider
}

const (
	// DefaultBaseURL is the public catalog the storefront browses.
	DefaultBaseURL   = "https://fakestoreapi.com"
	defaultUserAgent = "shelf/0.1"
)

// NewClient builds a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: defaultUserAgent,
		logger:    logger,
		telemetry: newTelemetry(opts.TracerProvider, opts.MeterProvider),
	}
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c, nil
}

// BaseURL returns the API root the client resolves paths against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchAllItems retrieves the full, unpaginated catalog.
func (c *Client) FetchAllItems(ctx context.Context) ([]Product, error) {
	var payload []Product
	if err := c.get(ctx, "/products", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchItemByID retrieves a single product.
func (c *Client) FetchItemByID(ctx context.Context, id int) (Product, error) {
	var payload Product
	if err := c.get(ctx, "/products/"+strconv.Itoa(id), &payload); err != nil {
		return Product{}, err
	}
	return payload, nil
}

// FetchCategories retrieves the flat category list.
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	var payload []Category
	if err := c.get(ctx, "/products/categories", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchItemsByCategory retrieves every product in category. The category is
// placed into the path as given; matching is up to the server.
func (c *Client) FetchItemsByCategory(ctx context.Context, category string) ([]Product, error) {
	var payload []Product
	if err := c.get(ctx, "/products/category/"+category, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchPage fetches the whole catalog and returns the requested page of it.
func (c *Client) FetchPage(ctx context.Context, pageSize, page int) (PageResult, error) {
	if pageSize <= 0 {
		return PageResult{}, ErrInvalidPageSize
	}
	items, err := c.FetchAllItems(ctx)
	if err != nil {
		return PageResult{}, err
	}
	return Paginate(items, pageSize, page)
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	if c == nil {
		return &RequestError{Message: "client is nil"}
	}
	ctx, finish := c.telemetry.start(ctx, path)
	err := c.do(ctx, path, dest)
	finish(err)
	if err != nil {
		attrs := []any{"path", path, "err", err}
		if reqErr, ok := AsRequestError(err); ok && reqErr.Status > 0 {
			attrs = append(attrs, "status", reqErr.Status)
		}
		c.logger.ErrorContext(ctx, "catalog request failed", attrs...)
	}
	return err
}

func (c *Client) do(ctx context.Context, path string, dest any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &RequestError{Message: fmt.Sprintf("wait for rate limiter: %v", err), Err: err}
		}
	}

	reqURL := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return &RequestError{Message: fmt.Sprintf("create request: %v", err), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Message: fmt.Sprintf("execute request: %v", err), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("api %s returned status %d", path, resp.StatusCode),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &RequestError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("decode response: %v", err),
			Err:     err,
		}
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
