package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/rshade/catalogview/internal/cache"
	"github.com/rshade/catalogview/internal/logging"
	"github.com/rshade/catalogview/pkg/version"
)

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// maxErrorBodyBytes caps how much of a failed response body becomes the error message.
const maxErrorBodyBytes = 4096

// Client talks to the catalog HTTP API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
	store      *cache.FileStore
	logger     zerolog.Logger

	group singleflight.Group

	skipVersionCheck bool
	versionOnce      sync.Once
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithToken sets the bearer token sent as the Authorization header.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithCache enables the on-disk response cache for GET requests.
func WithCache(store *cache.FileStore) Option {
	return func(c *Client) { c.store = store }
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = logging.ComponentLogger(l, "api") }
}

// WithSkipVersionCheck disables the X-Api-Version compatibility warning.
func WithSkipVersionCheck(skip bool) Option {
	return func(c *Client) { c.skipVersionCheck = skip }
}

// NewClient returns a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("api base URL must not be empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid api base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// getJSON performs a GET on the joined path segments and decodes the JSON body into out.
// Concurrent identical requests share one round trip. The shared request outlives
// any single caller's cancellation; each caller stops waiting when its own ctx ends.
func (c *Client) getJSON(ctx context.Context, query url.Values, out any, segments ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	endpoint := c.resolve(query, segments...)
	path := "/" + strings.Join(segments, "/")
	key := cache.KeyForRequest(http.MethodGet, endpoint, c.token)

	flightKey := key
	if after, ok := cachedAfterFrom(ctx); ok {
		flightKey += "@" + strconv.FormatInt(after.UnixNano(), 10)
	}

	ch := c.group.DoChan(flightKey, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.requestTimeout())
		defer cancel()
		return c.fetch(fctx, endpoint, key)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return res.Err
	}
	if res.Shared {
		c.logger.Debug().Ctx(ctx).Str("url", endpoint).Msg("coalesced concurrent request")
	}

	if decodeErr := json.Unmarshal(res.Val.([]byte), out); decodeErr != nil {
		return fmt.Errorf("decoding response from %s: %w", path, decodeErr)
	}
	return nil
}

func (c *Client) requestTimeout() time.Duration {
	if c.httpClient.Timeout > 0 {
		return c.httpClient.Timeout
	}
	return DefaultTimeout
}

func (c *Client) fetch(ctx context.Context, endpoint, key string) ([]byte, error) {
	log := c.logger.With().Str("url", endpoint).Str("trace_id", logging.TraceIDFromContext(ctx)).Logger()

	if c.store != nil && c.store.IsEnabled() {
		if entry, err := c.store.Get(key); err == nil {
			if after, ok := cachedAfterFrom(ctx); ok && entry.CreatedAt.Before(after) {
				log.Debug().Dur("age", entry.Age()).Msg("response cache entry older than requested, revalidating")
			} else {
				log.Debug().Dur("age", entry.Age()).Msg("response cache hit")
				return entry.Data, nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("request failed")
		return nil, fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.checkVersion(resp.Header.Get(HeaderAPIVersion))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		log.Warn().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("request returned error status")
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", endpoint, err)
	}
	log.Debug().Int("status", resp.StatusCode).Int("bytes", len(body)).Dur("elapsed", time.Since(start)).Msg("request completed")

	if c.store != nil && c.store.IsEnabled() && json.Valid(body) {
		if setErr := c.store.Set(key, body); setErr != nil {
			log.Warn().Err(setErr).Msg("could not write response cache")
		}
	}
	return body, nil
}

func (c *Client) resolve(query url.Values, segments ...string) string {
	u := c.baseURL.JoinPath(segments...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}
