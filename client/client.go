// Package client implements the HTTP client for the Artvee catalog: paginated
// metadata queries and binary image fetches, with transport-level retry.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/artvee/go-artvee-scraper/config"
	"github.com/artvee/go-artvee-scraper/models"
)

// itemsPerPage is the maximum number of catalog entries requested per page.
const itemsPerPage = 70

// Client issues paginated metadata queries and image fetches against the
// Artvee catalog. It owns HTTP timeout and retry configuration; retries are
// the transport's responsibility and invisible to callers.
type Client struct {
	baseURL   string
	userAgent string
	imageSize string
	http      *http.Client
}

// Option customizes client construction.
type Option func(*options)

type options struct {
	base     http.RoundTripper
	recorder Recorder
}

// WithBaseTransport replaces the underlying round tripper. The retry layer
// still wraps it; tests use this to substitute a mock transport.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// WithRecorder wires transport observations into a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// New builds a client from cfg. The connect and read timeouts must be
// non-negative and MaxAttempts must be in [1,10].
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.ConnTimeout < 0 {
		return nil, fmt.Errorf("connection timeout cannot be a negative number")
	}
	if cfg.ReadTimeout < 0 {
		return nil, fmt.Errorf("read timeout cannot be a negative number")
	}
	if cfg.MaxAttempts < 1 || cfg.MaxAttempts > 10 {
		return nil, fmt.Errorf("max attempts must be in range [1-10]")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	base := o.base
	if base == nil {
		base = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.ConnTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: cfg.ReadTimeout,
		}
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		imageSize: cfg.ImageSize,
		http: &http.Client{
			Transport: &retryTransport{
				next:        base,
				maxAttempts: cfg.MaxAttempts,
				backoff:     cfg.RetryBackoff,
				backoffMax:  cfg.RetryBackoffMax,
				recorder:    o.recorder,
			},
		},
	}, nil
}

// PageCount retrieves the total number of listing pages for a category,
// derived from the reported total-item count on the first page.
func (c *Client) PageCount(ctx context.Context, category models.Category) (int, error) {
	slog.Debug("retrieving page count", slog.String("category", category.String()))
	url := fmt.Sprintf("%s/c/%s/page/1/?per_page=%d", c.baseURL, category, itemsPerPage)

	body, err := c.get(ctx, url)
	if err != nil {
		return 0, err
	}

	total, err := parseResultCount(url, body)
	if err != nil {
		return 0, err
	}
	return (total + itemsPerPage - 1) / itemsPerPage, nil
}

// PageMetadata retrieves one listing page and extracts a metadata pair per
// catalog entry found in the body. Entries that fail extraction are logged
// and omitted; one malformed entry never fails the whole page.
func (c *Client) PageMetadata(ctx context.Context, category models.Category, page int) ([]models.PageEntry, error) {
	slog.Debug("retrieving metadata",
		slog.String("category", category.String()),
		slog.Int("page", page),
	)
	url := fmt.Sprintf("%s/c/%s/page/%d/?orderby=title_asc&per_page=%d", c.baseURL, category, page, itemsPerPage)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	return parsePageEntries(url, body, category, c.imageSize)
}

// FetchImage retrieves the raw image bytes at the metadata's source URL.
func (c *Client) FetchImage(ctx context.Context, img *models.ImageMetadata) ([]byte, error) {
	if img.SourceURL == "" {
		return nil, &ParseError{Msg: "image metadata has no source url"}
	}
	slog.Debug("retrieving image", slog.String("url", img.SourceURL))
	return c.get(ctx, img.SourceURL)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RequestError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &RequestError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{URL: url, Err: err}
	}
	return body, nil
}
