// Package rod implements pptstealer.Fetcher with a headless Chrome browser,
// for article pages that only fill in their images from JavaScript.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/starchen4/pptstealer"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements pptstealer.Fetcher at compile time.
var _ pptstealer.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager   *BrowserManager
	timeout   time.Duration
	userAgent string
	closed    atomic.Bool
}

// Option configures a Fetcher.
type Option func(*fetcherOptions)

type fetcherOptions struct {
	timeout   time.Duration
	userAgent string
	manager   []ManagerOption
}

// WithFetchTimeout bounds each Fetch call. Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *fetcherOptions) {
		o.timeout = d
	}
}

// WithUserAgent overrides the browser's User-Agent for fetched pages.
func WithUserAgent(ua string) Option {
	return func(o *fetcherOptions) {
		o.userAgent = ua
	}
}

// WithBrowserOptions passes options to the underlying BrowserManager.
func WithBrowserOptions(opts ...ManagerOption) Option {
	return func(o *fetcherOptions) {
		o.manager = append(o.manager, opts...)
	}
}

// NewFetcher launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	o := fetcherOptions{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	manager, err := NewBrowserManager(o.manager...)
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		manager:   manager,
		timeout:   o.timeout,
		userAgent: o.userAgent,
	}, nil
}

// Fetch navigates to url, waits for the load event and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", pptstealer.Errorf(pptstealer.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()
	defer f.manager.IncrementPageCount()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", err
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	return page.HTML()
}

// Close shuts down the browser. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
