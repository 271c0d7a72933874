package pptstealer

import "context"

// Fetcher retrieves the HTML of an article page.
type Fetcher interface {
	// Fetch retrieves the page at url and returns its markup.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the Fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// Downloader retrieves the raw bytes of a single image.
type Downloader interface {
	// Download fetches url, sending referer as the Referer header.
	// Image hosts that guard against hotlinking check it.
	Download(ctx context.Context, url, referer string) ([]byte, error)
}
