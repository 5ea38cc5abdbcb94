// Package nbaapi provides a minimal client for the stats.nba.com endpoints
// used by ingestion.
package nbaapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the root of the stats API.
const DefaultBaseURL = "https://stats.nba.com/stats"

// SeasonTypeRegular selects regular-season data.
const SeasonTypeRegular = "Regular Season"

// browserHeaders are sent with every request; the stats API drops
// connections that do not look like they come from nba.com.
var browserHeaders = map[string]string{
	"User-Agent":         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Accept":             "application/json, text/plain, */*",
	"Accept-Language":    "en-US,en;q=0.9",
	"Origin":             "https://www.nba.com",
	"Referer":            "https://www.nba.com/",
	"x-nba-stats-origin": "stats",
	"x-nba-stats-token":  "true",
}

// Observer is notified after every request with the endpoint name, the HTTP
// status (0 on transport errors) and the elapsed time.
type Observer func(endpoint string, status int, elapsed time.Duration)

// Client is a minimal stats.nba.com client. Each request is preceded by a
// fixed delay; failed requests are not retried.
type Client struct {
	baseURL  string
	http     *http.Client
	delay    time.Duration
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRequestDelay sets the pause taken before each request.
func WithRequestDelay(d time.Duration) Option {
	return func(c *Client) { c.delay = d }
}

// WithObserver installs a per-request callback.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient returns a client for the public stats API.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		delay:   600 * time.Millisecond,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// get waits the request delay, performs a GET against endpoint and decodes
// the resultSets envelope.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*response, error) {
	if err := sleep(ctx, c.delay); err != nil {
		return nil, err
	}

	u := c.baseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(endpoint, 0, start)
		return nil, fmt.Errorf("nbaapi %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	c.observe(endpoint, resp.StatusCode, start)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("nbaapi %s: HTTP %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("nbaapi %s: decode: %w", endpoint, err)
	}
	return &out, nil
}

func (c *Client) observe(endpoint string, status int, start time.Time) {
	if c.observer != nil {
		c.observer(endpoint, status, time.Since(start))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
