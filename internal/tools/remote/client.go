package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amoylab/toolserver/internal/cache"
	"github.com/amoylab/toolserver/internal/common/cnst"
	apptrace "github.com/amoylab/toolserver/pkg/trace"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// maxResponseBytes bounds an upstream body
const maxResponseBytes = 8 << 20

// StatusError is returned for upstream responses other than 200
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.URL, e.StatusCode)
}

// Client fetches JSON documents from an upstream API and caches successful
// responses
type Client struct {
	logger  *zap.Logger
	baseURL string
	headers http.Header
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
}

type Option func(*Client)

// WithHeader adds a header to every request
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithCache caches 200 responses for ttl
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.ttl = ttl
	}
}

// WithHTTPClient replaces the instrumented default client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for baseURL
func New(logger *zap.Logger, baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: make(http.Header),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL joins path and query onto the base URL
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Get fetches path and returns the body of a 200 response
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := c.URL(path, query)

	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, target)
		if err != nil {
			c.logger.Warn("cache lookup failed", zap.String("url", target), zap.Error(err))
		} else if ok {
			c.logger.Debug("upstream cache hit", zap.String("url", target))
			return body, nil
		}
	}

	scope := apptrace.Tracer(cnst.TraceUpstream).
		Start(ctx, cnst.SpanUpstreamFetch).
		WithAttrs(attribute.String(cnst.AttrUpstreamURL, target))
	defer scope.End()

	req, err := http.NewRequestWithContext(scope.Ctx, http.MethodGet, target, nil)
	if err != nil {
		scope.Fail(err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		scope.Fail(err)
		return nil, fmt.Errorf("failed to call upstream: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		scope.Fail(err)
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	c.logger.Debug("upstream response",
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Int("size", len(body)))

	if resp.StatusCode != http.StatusOK {
		err := &StatusError{URL: target, StatusCode: resp.StatusCode, Body: string(body)}
		scope.Fail(err)
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, target, body, c.ttl); err != nil {
			c.logger.Warn("failed to cache upstream response", zap.String("url", target), zap.Error(err))
		}
	}
	return body, nil
}
