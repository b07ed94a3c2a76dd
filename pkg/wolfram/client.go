package wolfram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Default endpoints of the Wolfram|Alpha web front end.
const (
	DefaultResultsURL      = "wss://www.wolframalpha.com/n/v1/api/fetcher/results"
	DefaultAutocompleteURL = "https://www.wolframalpha.com/n/v1/api/autocomplete/"
)

// DefaultUserAgent is sent on every request; the endpoints reject clients
// that do not look like a browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/105.0.0.0 Safari/537.36"

// Stream defaults
const (
	DefaultChunkSize    = 4096
	DefaultCloseTimeout = 5 * time.Second
)

// Client is a Wolfram|Alpha client. It is safe for concurrent use; every
// Query owns its own connection.
type Client struct {
	resultsURL      string
	autocompleteURL string
	userAgent       string
	httpClient      *http.Client
	dialer          *websocket.Dialer
	chunkSize       int
	closeTimeout    time.Duration

	closed atomic.Bool
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithResultsURL sets the websocket endpoint used by Query.
func WithResultsURL(u string) Option {
	return func(c *Client) {
		c.resultsURL = u
	}
}

// WithAutocompleteURL sets the HTTP endpoint used by Autocomplete.
func WithAutocompleteURL(u string) Option {
	return func(c *Client) {
		c.autocompleteURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithDialer sets a custom websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) {
		c.dialer = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithChunkSize sets the size of the buffers frames are read into.
func WithChunkSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithCloseTimeout bounds how long Query waits for the peer to acknowledge
// the closing handshake.
func WithCloseTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.closeTimeout = d
		}
	}
}

// New creates a new Wolfram|Alpha client.
func New(opts ...Option) *Client {
	c := &Client{
		resultsURL:      DefaultResultsURL,
		autocompleteURL: DefaultAutocompleteURL,
		userAgent:       DefaultUserAgent,
		httpClient:      http.DefaultClient,
		dialer:          websocket.DefaultDialer,
		chunkSize:       DefaultChunkSize,
		closeTimeout:    DefaultCloseTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close marks the client closed and releases idle HTTP connections.
// It is safe to call more than once.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.httpClient.CloseIdleConnections()
	return nil
}

// checkUsable is run before any I/O.
func (c *Client) checkUsable(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

type autocompleteResponse struct {
	Results []struct {
		Input string `json:"input"`
	} `json:"results"`
}

// Autocomplete returns query suggestions for a free-text prefix.
func (c *Client) Autocomplete(ctx context.Context, input string) ([]string, error) {
	if err := c.checkUsable(ctx); err != nil {
		return nil, err
	}

	query := url.Values{"i": {input}}
	var resp autocompleteResponse
	if err := c.get(ctx, c.autocompleteURL, query, &resp); err != nil {
		return nil, fmt.Errorf("getting autocomplete results for %q: %w", input, err)
	}

	suggestions := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		suggestions = append(suggestions, r.Input)
	}
	return suggestions, nil
}

// get performs a GET request and decodes the JSON response.
func (c *Client) get(ctx context.Context, rawURL string, query url.Values, result any) error {
	start := time.Now()

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing URL: %w", err)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		slog.Debug("HTTP request failed",
			slog.String("method", "GET"),
			slog.String("path", u.Path),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.Debug("HTTP request returned error",
			slog.String("method", "GET"),
			slog.String("path", u.Path),
			slog.Int("status", resp.StatusCode),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("decoding response: %w", err)
	}

	slog.Debug("HTTP request completed",
		slog.String("method", "GET"),
		slog.String("path", u.Path),
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}
