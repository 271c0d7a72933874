package mock

import (
	"context"

	"github.com/starchen4/pptstealer"
)

var _ pptstealer.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of pptstealer.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ pptstealer.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of pptstealer.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url, referer string) ([]byte, error)
}

func (d *Downloader) Download(ctx context.Context, url, referer string) ([]byte, error) {
	return d.DownloadFn(ctx, url, referer)
}
