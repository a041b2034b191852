package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abelbrown/catalog/internal/logging"
	"github.com/abelbrown/catalog/internal/otel"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public DummyJSON API.
const DefaultBaseURL = "https://dummyjson.com"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 8 << 20

// Client calls the products API. Safe for concurrent use.
type Client struct {
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	validate *validator.Validate
	events   *otel.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithRateLimit spaces requests at least interval apart, allowing burst
// back-to-back requests. A zero interval disables limiting.
func WithRateLimit(interval time.Duration, burst int) Option {
	return func(c *Client) {
		if interval <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(interval), max(burst, 1))
	}
}

// WithEvents sends fetch.error events to l, tagged with the otel.Scope of
// the request context.
func WithEvents(l *otel.Logger) Option {
	return func(c *Client) { c.events = l }
}

// NewClient creates a Client for baseURL (without the /products suffix).
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 15 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(200*time.Millisecond), 2),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPage returns up to limit products starting at offset skip.
func (c *Client) FetchPage(ctx context.Context, limit, skip int) ([]Product, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(skip))

	products, err := c.get(ctx, "/products", q)
	if err != nil {
		c.fail(ctx, "get all products", err, otel.Event{Limit: limit, Skip: skip})
		return nil, fmt.Errorf("get all products: %w", ErrFetch)
	}
	return products, nil
}

// Search returns the products matching query. The endpoint has no paging
// parameters; whatever the source returns is the whole result.
func (c *Client) Search(ctx context.Context, query string) ([]Product, error) {
	q := url.Values{}
	q.Set("q", query)

	products, err := c.get(ctx, "/products/search", q)
	if err != nil {
		c.fail(ctx, "search products", err, otel.Event{Query: query})
		return nil, fmt.Errorf("search products: %w", ErrFetch)
	}
	return products, nil
}

// fail logs the underlying cause; callers only ever see ErrFetch.
// Cancellation is routine (a superseded search) and only logged at debug.
func (c *Client) fail(ctx context.Context, op string, cause error, ev otel.Event) {
	if errors.Is(cause, context.Canceled) {
		logging.Debug(op+" cancelled", "err", cause)
		return
	}
	logging.Error(op+" failed", "err", cause)

	ev.Level = otel.LevelError
	ev.Kind = otel.KindFetchError
	ev.Msg = op
	ev.Err = cause.Error()
	c.events.EmitFor(ctx, "client", ev)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]Product, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	endpoint := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %s: %s", resp.Status, truncate(string(body), 200))
	}

	var decoded listResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if err := c.validate.Struct(&decoded); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	return decoded.Products, nil
}

// truncate shortens s to maxLen runes, adding "..." when cut.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
