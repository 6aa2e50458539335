// Package fetch provides the shared HTTP client used by every scraping
// surface: one user agent, one timeout policy, one rate limit toward the
// external sites, and an optional page cache.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"reelbuzz/internal/logger"
)

// PageCache is the subset of the store used by the client. A nil cache
// disables caching.
type PageCache interface {
	GetCachedPage(url string, ttl time.Duration) (string, bool, error)
	CachePage(url, body string) error
}

// Options configures a Client.
type Options struct {
	UserAgent string
	Timeout   time.Duration // per request
	RateLimit time.Duration // min interval between outbound requests
	Cache     PageCache
	CacheTTL  time.Duration
}

// Client is a rate-limited, cache-aware HTTP client for scraping.
type Client struct {
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	cache     PageCache
	cacheTTL  time.Duration
}

// NewClient creates a scraping client from opts, applying defaults for
// zero values.
func NewClient(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (compatible; reelbuzz/1.0)"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.RateLimit), 1)
	}

	return &Client{
		http:      &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
		limiter:   limiter,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
	}
}

// GetBody fetches a URL and returns the response body as a string,
// consulting the page cache first.
func (c *Client) GetBody(ctx context.Context, url string) (string, error) {
	if c.cache != nil {
		if body, ok, err := c.cache.GetCachedPage(url, c.cacheTTL); err == nil && ok {
			logger.Debug("Page cache hit", "url", url)
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait interrupted: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch %s: status code %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body from %s: %w", url, err)
	}

	if c.cache != nil {
		if err := c.cache.CachePage(url, string(body)); err != nil {
			logger.Warn("Failed to cache page", "url", url, "error", err.Error())
		}
	}

	return string(body), nil
}

// GetDocument fetches a URL and parses it into a goquery document.
func (c *Client) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.GetBody(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", url, err)
	}
	return doc, nil
}
