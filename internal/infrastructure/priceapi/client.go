// Package priceapi is the HTTP client of the remote price API.
package priceapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"pricetable/internal/core/apperror"
	appctx "pricetable/internal/core/context"
	"pricetable/internal/domain/product"
)

var tracer = otel.Tracer("pricetable/priceapi")

// Compile-time check that Client implements product.Gateway.
var _ product.Gateway = (*Client)(nil)

const (
	pathPaged        = "/products/paged"
	pathAll          = "/products"
	pathContaining   = "/products/containing"
	pathStartingWith = "/products/starting-with"
	pathEndingWith   = "/products/ending-with"
	pathBarcode      = "/products/barcode"

	headerRequestID = "X-Request-ID"
)

// Config holds client configuration.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// Token.Secret enables service tokens when non-empty.
	Token TokenConfig
}

// DefaultConfig returns client defaults for baseURL.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:   baseURL,
		Timeout:   15 * time.Second,
		UserAgent: "pricetable/1.0",
	}
}

// Client calls the price API. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	userAgent  string
	tokens     *TokenSource
	zstd       *zstd.Decoder
}

// New creates a client. httpClient may be nil.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", cfg.BaseURL)
	}

	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    base,
		userAgent:  cfg.UserAgent,
		zstd:       dec,
	}
	if cfg.Token.Secret != "" {
		c.tokens = NewTokenSource(cfg.Token)
	}
	return c, nil
}

// Close releases decoder resources.
func (c *Client) Close() {
	c.zstd.Close()
}

// GetPagedProducts fetches a page of the unfiltered product list.
func (c *Client) GetPagedProducts(ctx context.Context, p product.Pagination) (product.Page, error) {
	return c.getPage(ctx, "GetPagedProducts", pathPaged, p, nil)
}

// GetAllProducts fetches a page of all products.
func (c *Client) GetAllProducts(ctx context.Context, p product.Pagination) (product.Page, error) {
	return c.getPage(ctx, "GetAllProducts", pathAll, p, nil)
}

// GetProductsContaining fetches a page of products whose description contains value.
func (c *Client) GetProductsContaining(ctx context.Context, p product.Pagination, value string) (product.Page, error) {
	return c.getPage(ctx, "GetProductsContaining", pathContaining, p, &value)
}

// GetProductsStartingWith fetches a page of products whose description starts with value.
func (c *Client) GetProductsStartingWith(ctx context.Context, p product.Pagination, value string) (product.Page, error) {
	return c.getPage(ctx, "GetProductsStartingWith", pathStartingWith, p, &value)
}

// GetProductsEndingWith fetches a page of products whose description ends with value.
func (c *Client) GetProductsEndingWith(ctx context.Context, p product.Pagination, value string) (product.Page, error) {
	return c.getPage(ctx, "GetProductsEndingWith", pathEndingWith, p, &value)
}

// GetByBarcode looks a barcode up. Every HTTP status is a valid answer;
// only transport and decoding failures are errors.
func (c *Client) GetByBarcode(ctx context.Context, barcode string) (product.LookupResponse, error) {
	u := c.endpoint(pathBarcode+"/"+url.PathEscape(barcode), nil)

	status, body, err := c.get(ctx, "GetByBarcode", u)
	if err != nil {
		return product.LookupResponse{}, err
	}

	resp := product.LookupResponse{Status: status}
	switch status {
	case http.StatusOK, http.StatusCreated:
		var p product.Product
		if err := json.Unmarshal(body, &p); err != nil {
			return product.LookupResponse{}, fmt.Errorf("decode product: %w", err)
		}
		resp.Product = &p
	case http.StatusBadRequest:
		var v product.ValidationError
		if err := json.Unmarshal(body, &v); err != nil {
			return product.LookupResponse{}, fmt.Errorf("decode violations: %w", err)
		}
		resp.Validation = &v
	}
	return resp, nil
}

func (c *Client) getPage(ctx context.Context, op, path string, p product.Pagination, value *string) (product.Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("pageSize", strconv.Itoa(p.PageSize))
	if value != nil {
		q.Set("value", *value)
	}

	status, body, err := c.get(ctx, op, c.endpoint(path, q))
	if err != nil {
		return product.Page{}, err
	}
	if status != http.StatusOK {
		return product.Page{}, apperror.NewUpstream(op, status)
	}

	var page product.Page
	if err := json.Unmarshal(body, &page); err != nil {
		return product.Page{}, fmt.Errorf("decode %s response: %w", op, err)
	}
	if page.Products == nil {
		page.Products = []product.Product{}
	}
	return page, nil
}

func (c *Client) endpoint(path string, q url.Values) *url.URL {
	u := c.baseURL.JoinPath(path)
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u
}

// get performs one GET and returns status and decoded body.
func (c *Client) get(ctx context.Context, op string, u *url.URL) (int, []byte, error) {
	ctx, span := tracer.Start(ctx, "priceapi."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("url.path", u.Path),
		),
	)
	defer span.End()

	status, body, err := c.doGet(ctx, u)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", status))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
	return status, body, nil
}

func (c *Client) doGet(ctx context.Context, u *url.URL) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", acceptEncoding)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if rid := appctx.GetRequestID(ctx); rid != "" {
		req.Header.Set(headerRequestID, rid)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := c.readBody(resp)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}
