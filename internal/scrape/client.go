// Package scrape fetches pages from the APK mirror and extracts version
// details from them.
//
// The mirror blocks non-browser clients, so every request carries a desktop
// browser user agent. HTML structure on the mirror changes without notice,
// which is why extraction is done by several independent strategies that all
// degrade to "not found" rather than failing.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// DefaultUserAgent is a desktop Chrome user agent accepted by the mirror.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"

// maxBodySize caps how much of a response is read.
const maxBodySize = 10 << 20

// Fetcher retrieves raw documents and parsed HTML documents.
type Fetcher interface {
	Get(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error)
	Document(ctx context.Context, rawURL string, timeout time.Duration) (*goquery.Document, error)
}

// Client fetches pages over HTTP with a browser user agent.
type Client struct {
	http      *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewClient creates a client. An empty userAgent selects DefaultUserAgent.
// Timeouts are applied per request through the context, so the underlying
// http.Client has none of its own.
func NewClient(userAgent string, logger *zap.Logger) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:      &http.Client{},
		userAgent: userAgent,
		logger:    logger,
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// UserAgent returns the user agent sent with every request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// Get fetches rawURL and returns the undecoded body.
func (c *Client) Get(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	resp, cancel, err := c.do(ctx, rawURL, timeout)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	return body, nil
}

// Document fetches rawURL and parses it as HTML. The body is converted to
// UTF-8 according to the response Content-Type. The returned document's Url
// is the final URL after redirects.
func (c *Client) Document(ctx context.Context, rawURL string, timeout time.Duration) (*goquery.Document, error) {
	resp, cancel, err := c.do(ctx, rawURL, timeout)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer resp.Body.Close()

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", rawURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", rawURL, err)
	}
	doc.Url = resp.Request.URL
	return doc, nil
}

// do issues the request. The returned cancel func must be called once the
// body has been consumed.
func (c *Client) do(ctx context.Context, rawURL string, timeout time.Duration) (*http.Response, context.CancelFunc, error) {
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("invalid URL %s: %w", rawURL, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	c.logger.Debug("fetched page",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		cancel()
		return nil, nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	return resp, cancel, nil
}
