// Package http provides the HTTP side of pptstealer: a Fetcher for article
// pages, a Downloader for images, and the Server exposing the pipeline over
// HTTP.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/starchen4/pptstealer"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for the article request.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxPageSize caps the article body read into memory.
const DefaultMaxPageSize = 16 << 20

// DefaultUserAgent mimics a desktop browser; the article host serves a
// stripped page to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"

// Ensure Fetcher implements pptstealer.Fetcher at compile time.
var _ pptstealer.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves article HTML with a single HTTP request.
// It does not execute JavaScript; see rod.Fetcher for pages that need it.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxSize   int64
}

// Option configures a Fetcher or a Downloader.
type Option func(*options)

type options struct {
	timeout   time.Duration
	userAgent string
	maxSize   int64
}

// WithTimeout sets the timeout for each request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithMaxBodySize caps the number of response bytes read.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		o.maxSize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	o := options{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		maxSize:   DefaultMaxPageSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Fetcher{
		client:    &http.Client{Timeout: o.timeout},
		userAgent: o.userAgent,
		maxSize:   o.maxSize,
	}
}

// Fetch retrieves the page at url and returns its body decoded to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := readLimited(resp.Body, f.maxSize)
	if err != nil {
		return "", err
	}

	r, err := charset.NewReader(bytes.NewReader(body), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decoding charset: %w", err)
	}
	html, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	return string(html), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
