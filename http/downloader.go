package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/starchen4/pptstealer"
)

// DefaultDownloadTimeout is the default timeout for a single image request.
const DefaultDownloadTimeout = 30 * time.Second

// DefaultMaxImageSize caps a single image body.
const DefaultMaxImageSize = 32 << 20

// Ensure Downloader implements pptstealer.Downloader at compile time.
var _ pptstealer.Downloader = (*Downloader)(nil)

// Downloader retrieves image bytes over HTTP.
// Downloader is safe for concurrent use by multiple goroutines.
type Downloader struct {
	client    *http.Client
	userAgent string
	maxSize   int64
}

// NewDownloader creates a new Downloader.
func NewDownloader(opts ...Option) *Downloader {
	o := options{
		timeout:   DefaultDownloadTimeout,
		userAgent: DefaultUserAgent,
		maxSize:   DefaultMaxImageSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Downloader{
		client:    &http.Client{Timeout: o.timeout},
		userAgent: o.userAgent,
		maxSize:   o.maxSize,
	}
}

// Download fetches the image at url. The referer is sent as the Referer
// header when non-empty.
func (d *Downloader) Download(ctx context.Context, url, referer string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", d.userAgent)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	return readLimited(resp.Body, d.maxSize)
}

// readLimited reads r fully, failing if it holds more than limit bytes.
// A limit of zero or less disables the check.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return b, nil
}
