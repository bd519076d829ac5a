package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store defines the remote catalog operations. It is implemented by *Client
// and faked in tests.
type Store interface {
	List(ctx context.Context) ([]Product, *Failure)
	Create(ctx context.Context, payload Payload) Result
	Update(ctx context.Context, id ID, payload Payload) Result
}

// Ensure Client implements Store at compile time.
var _ Store = (*Client)(nil)

// Client talks to the product REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *zap.Logger
}

const (
	// DefaultAPIURL is the public demo catalog.
	DefaultAPIURL         = "https://api.escuelajs.co/api/v1/products"
	defaultUserAgent      = "shopkeep/0.1"
	defaultRequestTimeout = 10 * time.Second
	maxErrorBody          = 4 << 10
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient builds a Client for the collection at apiURL.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: defaultRequestTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the collection URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// List fetches every product. On failure it returns an empty list along with
// the failure so the caller can continue without data.
func (c *Client) List(ctx context.Context) ([]Product, *Failure) {
	var products []Product
	if f := c.do(ctx, "list", http.MethodGet, c.baseURL, nil, &products); f != nil {
		return []Product{}, f
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// Create posts a new product.
func (c *Client) Create(ctx context.Context, payload Payload) Result {
	var created Product
	if f := c.do(ctx, "create", http.MethodPost, c.baseURL, payload, &created); f != nil {
		return failed(f)
	}
	return Result{Product: created}
}

// Update replaces the product identified by id.
func (c *Client) Update(ctx context.Context, id ID, payload Payload) Result {
	if strings.TrimSpace(string(id)) == "" {
		return failed(&Failure{Kind: ServerRejected, Op: "update", Err: fmt.Errorf("product id required")})
	}
	var updated Product
	if f := c.do(ctx, "update", http.MethodPut, c.itemURL(id), payload, &updated); f != nil {
		return failed(f)
	}
	return Result{Product: updated}
}

func (c *Client) itemURL(id ID) *url.URL {
	u := *c.baseURL
	escapedBase := strings.TrimSuffix(c.baseURL.EscapedPath(), "/")
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + string(id)
	u.RawPath = escapedBase + "/" + url.PathEscape(string(id))
	return &u
}

func (c *Client) do(ctx context.Context, op, method string, target *url.URL, body, dest any) *Failure {
	if c == nil {
		return &Failure{Kind: NetworkUnavailable, Op: op, Err: fmt.Errorf("client is nil")}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Failure{Kind: ServerRejected, Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return &Failure{Kind: NetworkUnavailable, Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.With(
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", target.String()),
		zap.String("request_id", requestID),
	)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return &Failure{Kind: NetworkUnavailable, Op: op, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debug("response received",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("server rejected request",
			zap.Int("status", resp.StatusCode),
			zap.String("body", strings.TrimSpace(string(snippet))),
		)
		return &Failure{Kind: ServerRejected, Op: op, Status: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		log.Warn("decode response failed", zap.Error(err))
		return &Failure{Kind: ServerRejected, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = DefaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
