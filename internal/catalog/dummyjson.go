package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/domain"
	"github.com/akshad21/Shop1t-Ecommerce-Application/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://dummyjson.com"
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 10 << 20
)

type productsResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

// DummyJSON reads products from a dummyjson-compatible API. Every request
// goes through a circuit breaker; not-found answers do not count against it.
type DummyJSON struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     *zap.Logger
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	Breaker circuitbreaker.Options
	// Transport overrides the instrumented default transport.
	Transport http.RoundTripper
}

func NewDummyJSON(opts Options, log *zap.Logger) *DummyJSON {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Breaker.ConsecutiveFailures == 0 {
		opts.Breaker = circuitbreaker.DefaultOptions()
	}
	transport := opts.Transport
	if transport == nil {
		transport = otelhttp.NewTransport(http.DefaultTransport)
	}

	isSuccessful := func(err error) bool {
		return err == nil || errors.Is(err, ErrProductNotFound) || errors.Is(err, context.Canceled)
	}

	return &DummyJSON{
		baseURL: opts.BaseURL,
		client:  &http.Client{Transport: transport},
		timeout: opts.Timeout,
		breaker: circuitbreaker.New[[]byte]("catalog", opts.Breaker, isSuccessful, log),
		log:     log,
	}
}

func (d *DummyJSON) ProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	slug := NormalizeCategory(category)
	if slug == "" {
		return []domain.Product{}, nil
	}
	return d.products(ctx, "/products/category/"+url.PathEscape(slug), nil)
}

func (d *DummyJSON) Product(ctx context.Context, id int64) (*domain.Product, error) {
	body, err := d.get(ctx, "/products/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, err
	}

	var p domain.Product
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: decode product: %v", ErrUpstream, err)
	}
	return &p, nil
}

func (d *DummyJSON) Search(ctx context.Context, query string) ([]domain.Product, error) {
	return d.products(ctx, "/products/search", url.Values{"q": {query}})
}

func (d *DummyJSON) Categories(ctx context.Context) ([]string, error) {
	body, err := d.get(ctx, "/products/category-list", nil)
	if err != nil {
		return nil, err
	}

	var categories []string
	if err := json.Unmarshal(body, &categories); err != nil {
		return nil, fmt.Errorf("%w: decode categories: %v", ErrUpstream, err)
	}
	return categories, nil
}

func (d *DummyJSON) AllProducts(ctx context.Context) ([]domain.Product, error) {
	return d.products(ctx, "/products", url.Values{"limit": {"0"}})
}

func (d *DummyJSON) products(ctx context.Context, path string, query url.Values) ([]domain.Product, error) {
	body, err := d.get(ctx, path, query)
	if err != nil {
		// A category the catalog does not know is an empty listing.
		if errors.Is(err, ErrProductNotFound) {
			return []domain.Product{}, nil
		}
		return nil, err
	}

	var res productsResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: decode products: %v", ErrUpstream, err)
	}
	if res.Products == nil {
		res.Products = []domain.Product{}
	}
	return res.Products, nil
}

func (d *DummyJSON) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	body, err := d.breaker.Execute(func() ([]byte, error) {
		return d.do(ctx, path, query)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, err
}

func (d *DummyJSON) do(ctx context.Context, path string, query url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	u := d.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrProductNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		d.log.Warn("catalog request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: %s returned %d", ErrUpstream, path, resp.StatusCode)
	}
	return body, nil
}
