// Package ddragon reads League metadata (versions, items, runes, summoner
// spells, champions) from Data Dragon.
package ddragon

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public Data Dragon host
	DefaultBaseURL = "https://ddragon.leagueoflegends.com"
	// DefaultLocale is the data locale used for names
	DefaultLocale = "en_US"
	// DefaultVersionTTL is how long the latest version is reused before refetching
	DefaultVersionTTL = time.Hour

	defaultTimeout = 10 * time.Second
)

// Client fetches Data Dragon documents
type Client struct {
	httpClient *http.Client
	baseURL    string
	locale     string
	logger     *zap.Logger

	versions *VersionCache
	ttl      time.Duration
	now      func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL sets a custom base URL (useful for testing)
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithLocale sets the data locale
func WithLocale(locale string) Option {
	return func(c *Client) {
		if locale != "" {
			c.locale = locale
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithVersionTTL sets how long a fetched version stays current
func WithVersionTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.ttl = ttl
	}
}

// WithClock sets the time source for version expiry
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.Named("ddragon")
		}
	}
}

// NewClient creates a Data Dragon client
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    DefaultBaseURL,
		locale:     DefaultLocale,
		logger:     zap.NewNop(),
		ttl:        DefaultVersionTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.versions = NewVersionCache(c.fetchLatestVersion, c.ttl, c.now)
	return c
}

// LatestVersion returns the newest game version, cached for the configured TTL
func (c *Client) LatestVersion(ctx context.Context) (string, error) {
	return c.versions.Get(ctx)
}

// fetchLatestVersion asks Data Dragon for its version list
func (c *Client) fetchLatestVersion(ctx context.Context) (string, error) {
	var versions []string
	if err := c.getJSON(ctx, c.baseURL+"/api/versions.json", &versions); err != nil {
		return "", fmt.Errorf("failed to fetch versions: %w", err)
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("no versions available")
	}
	c.logger.Debug("Fetched latest version", zap.String("version", versions[0]))
	return versions[0], nil
}

// dataURL returns the URL of a per-version data file
func (c *Client) dataURL(version, file string) string {
	return fmt.Sprintf("%s/cdn/%s/data/%s/%s", c.baseURL, version, c.locale, file)
}

// getJSON fetches url and decodes the body into v
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
