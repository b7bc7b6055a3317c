// Package tmdb is a small client for the parts of The Movie Database API the
// recommender needs: movie and person search, movie details with credits,
// and movie videos.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the TMDB v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultTimeout bounds a single request attempt
	DefaultTimeout = 8 * time.Second
	// DefaultRateLimit is requests per second
	DefaultRateLimit = 20

	// ImageBaseURL prefixes poster and profile paths
	ImageBaseURL = "https://image.tmdb.org/t/p/w200"
	// MoviePageBaseURL prefixes a movie id to form its public page
	MoviePageBaseURL = "https://www.themoviedb.org/movie/"
	// YouTubeEmbedBaseURL prefixes a video key
	YouTubeEmbedBaseURL = "https://www.youtube.com/embed/"

	maxRetries = 1
)

// ErrNotFound is returned when a search yields no results.
var ErrNotFound = errors.New("tmdb: no results")

// APIError is a non-2xx response from TMDB.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb: API error (status %d): %s", e.StatusCode, e.Body)
}

// Config configures a Client. Zero values fall back to the defaults.
type Config struct {
	AccessToken string
	BaseURL     string
	Timeout     time.Duration
	RateLimit   int
	HTTPClient  *http.Client
}

// Client calls the TMDB API with a bearer read-access token.
// Every request is rate limited, bounded by Timeout per attempt and retried
// at most once on transport errors and 5xx/429 responses.
type Client struct {
	token      string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a TMDB client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Client{
		token:      cfg.AccessToken,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		httpClient: cfg.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit),
		logger:     logger,
	}
}

// get issues GET baseURL+path?query and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.RandomizationFactor = 0.5
	b := backoff.WithContext(backoff.WithMaxRetries(policy, maxRetries), ctx)

	attempt := 0
	op := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		body, err := c.do(ctx, endpoint)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && !retryable(apiErr.StatusCode) {
				return backoff.Permanent(err)
			}
			c.logger.Debug("tmdb request failed", "path", path, "attempt", attempt, "error", err)
			return err
		}
		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("tmdb: failed to parse response: %w", err))
		}
		return nil
	}

	return backoff.Retry(op, b)
}

func (c *Client) do(ctx context.Context, endpoint string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("tmdb: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tmdb: failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	return body, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
