// Package docapi implements the paginated DOC API fetch client.
package docapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"

	"github.com/hikoapp/doc-sync/internal/domain"
	"github.com/hikoapp/doc-sync/internal/observability"
)

const (
	// coordinateSystem is sent on every list request; the API also supports
	// NZTM but everything downstream assumes WGS-84.
	coordinateSystem = "wgs84"

	// DefaultPageSize is the pageSize query parameter used unless overridden.
	DefaultPageSize = 100

	maxAttempts    = 5
	baseRetryDelay = 500 * time.Millisecond
	defaultTimeout = 30 * time.Second
)

// ErrRetryLimitExceeded is returned when the DOC API keeps rate limiting past
// the retry budget.
var ErrRetryLimitExceeded = errors.New("doc api request exceeded retry limit")

// Config holds the client's connection settings. BaseURL and APIKey are
// required; a missing value is a deployment defect surfaced at construction,
// never retried.
type Config struct {
	BaseURL  string
	APIKey   string
	PageSize int
	Timeout  time.Duration
}

// Client fetches raw asset records from the DOC API, following pagination and
// retrying rate-limited requests with exponential backoff.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a DOC API client. It fails fast on missing configuration.
func NewClient(cfg Config, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("doc api base URL is not set")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("doc api key is not set")
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    trimTrailingSlash(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: timeout},
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
	}, nil
}

// Option adjusts a single fetch call.
type Option func(*requestOptions)

type requestOptions struct {
	pageSize int
	query    url.Values
}

// WithPageSize overrides the pageSize query parameter for this call.
func WithPageSize(n int) Option {
	return func(o *requestOptions) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithQuery adds a query parameter. Nil values are suppressed; strings,
// numbers, and booleans are formatted as-is.
func WithQuery(key string, value any) Option {
	return func(o *requestOptions) {
		if value == nil {
			return
		}
		o.query.Set(key, fmt.Sprint(value))
	}
}

func (c *Client) buildOptions(opts []Option) requestOptions {
	o := requestOptions{pageSize: c.pageSize, query: url.Values{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FetchAll retrieves every record behind a paginated list endpoint, e.g.
// "/tracks". Pages are requested sequentially until the end-of-pagination
// heuristic fires.
func (c *Client) FetchAll(ctx context.Context, path string, opts ...Option) ([]domain.Raw, error) {
	o := c.buildOptions(opts)

	var items []domain.Raw
	for page := 1; ; page++ {
		payload, err := c.fetchWithRetry(ctx, c.buildURL(path, o, page))
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", path, page, err)
		}

		pageItems := extractItems(payload)
		items = append(items, pageItems...)
		c.metrics.FetchPages.Inc()

		if !hasNextPage(payload, len(pageItems), o.pageSize) {
			return items, nil
		}
	}
}

// FetchSingle retrieves one record, e.g. "/tracks/track-1". Returns nil
// without error when the endpoint yields no usable record.
func (c *Client) FetchSingle(ctx context.Context, path string, opts ...Option) (domain.Raw, error) {
	o := c.buildOptions(opts)

	payload, err := c.fetchWithRetry(ctx, c.buildURL(path, o, 0))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	return extractSingle(payload), nil
}

// buildURL assembles the request URL. The page parameter is omitted on the
// first page.
func (c *Client) buildURL(path string, o requestOptions, page int) string {
	params := url.Values{}
	params.Set("coordinates", coordinateSystem)
	params.Set("pageSize", strconv.Itoa(o.pageSize))
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	for key, vals := range o.query {
		for _, v := range vals {
			params.Set(key, v)
		}
	}
	return c.baseURL + path + "?" + params.Encode()
}

// fetchWithRetry performs one logical request, retrying HTTP 429 responses up
// to maxAttempts with delays of 500/1000/2000/4000/8000ms. Any other non-2xx
// status is terminal immediately. Cancellation aborts the in-flight request
// and short-circuits any pending retry delay.
func (c *Client) fetchWithRetry(ctx context.Context, fullURL string) (any, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.metrics.FetchRequests.WithLabelValues(req.URL.Path, "error").Inc()
			return nil, fmt.Errorf("doc api request: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			drain(resp)
			c.metrics.FetchRetries.Inc()

			delay := baseRetryDelay << (attempt - 1)
			c.logger.Warn("doc api rate limited, backing off",
				"path", req.URL.Path,
				"delay", delay,
				"attempt", attempt,
				"max_attempts", maxAttempts,
			)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			c.metrics.FetchRequests.WithLabelValues(req.URL.Path, "error").Inc()
			return nil, fmt.Errorf("doc api request failed with %d %s: %s",
				resp.StatusCode, http.StatusText(resp.StatusCode), body)
		}

		var payload any
		err = json.NewDecoder(resp.Body).Decode(&payload)
		resp.Body.Close()
		if err != nil {
			c.metrics.FetchRequests.WithLabelValues(req.URL.Path, "error").Inc()
			return nil, fmt.Errorf("decode doc api response: %w", err)
		}
		c.metrics.FetchRequests.WithLabelValues(req.URL.Path, "success").Inc()
		return payload, nil
	}

	return nil, ErrRetryLimitExceeded
}

// sleep waits for the backoff delay, returning early if the context is
// cancelled.
func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(d):
		return nil
	}
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body) //nolint:errcheck // best-effort drain for connection reuse
	resp.Body.Close()
}

// extractItems tolerates the API's inconsistent list shapes: a bare array, an
// object with an "items" array, or an object with a "data" array. Anything
// else yields an empty page.
func extractItems(payload any) []domain.Raw {
	switch p := payload.(type) {
	case []any:
		return toRaws(p)
	case map[string]any:
		if arr, ok := p["items"].([]any); ok {
			return toRaws(arr)
		}
		if arr, ok := p["data"].([]any); ok {
			return toRaws(arr)
		}
	}
	return nil
}

func toRaws(arr []any) []domain.Raw {
	out := make([]domain.Raw, 0, len(arr))
	for _, v := range arr {
		if m, ok := v.(map[string]any); ok {
			out = append(out, domain.Raw(m))
		}
	}
	return out
}

// extractSingle pulls a singular record from "item", "data" (first array
// element or the object itself), or the raw payload, in that order.
func extractSingle(payload any) domain.Raw {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	if item, ok := m["item"].(map[string]any); ok {
		return domain.Raw(item)
	}
	switch data := m["data"].(type) {
	case []any:
		if len(data) > 0 {
			if first, ok := data[0].(map[string]any); ok {
				return domain.Raw(first)
			}
		}
		return nil
	case map[string]any:
		return domain.Raw(data)
	}
	return domain.Raw(m)
}

// hasNextPage decides whether another page should be requested. The upstream
// API reports pagination inconsistently across endpoint versions, so the
// signals are checked in priority order: a positive numeric nextPage, a
// non-empty nextPageToken, a truthy pagination.next, and finally a full page
// as a heuristic that more may follow.
func hasNextPage(payload any, fetched, expectedPageSize int) bool {
	if payload == nil {
		return false
	}
	if m, ok := payload.(map[string]any); ok {
		if next, ok := m["nextPage"].(float64); ok {
			return next > 0
		}
		if token, ok := m["nextPageToken"].(string); ok {
			return token != ""
		}
		if pagination, ok := m["pagination"].(map[string]any); ok {
			if truthy(pagination["next"]) {
				return true
			}
		}
	}
	return fetched >= expectedPageSize
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
