package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/starchen4/pptstealer"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of images downloaded at once.
const DefaultConcurrency = 4

// AcquireStats counts the outcome of an Acquire call.
type AcquireStats struct {
	Total    int
	Passed   int
	Failed   int
	Rejected int
}

// AcquireProgressFunc is called after each image resolves, in resolution order.
type AcquireProgressFunc func(current, passed, total int)

// Acquirer downloads and decodes candidate images concurrently, keeping
// those whose real size passes the geometry rules.
type Acquirer struct {
	Downloader pptstealer.Downloader

	// Concurrency bounds in-flight downloads. Defaults to DefaultConcurrency.
	Concurrency int

	// RateLimit caps requests per second to each image host. Zero disables it.
	RateLimit float64

	// RetryDelays are the waits between download attempts. Nil means one attempt.
	RetryDelays []time.Duration
}

// acquireResult holds the outcome of a single candidate.
type acquireResult struct {
	index    int
	image    *pptstealer.DecodedImage
	rejected bool
	err      error
}

// Acquire downloads candidates and returns the accepted images in candidate
// order. Individual failures are dropped and counted in the stats; the only
// error returned is the context's.
func (a *Acquirer) Acquire(ctx context.Context, referer string, candidates []pptstealer.ImageCandidate, rules pptstealer.FilterRules, progress AcquireProgressFunc) ([]*pptstealer.DecodedImage, AcquireStats, error) {
	stats := AcquireStats{Total: len(candidates)}
	if len(candidates) == 0 {
		return nil, stats, nil
	}

	concurrency := a.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var limiter *HostLimiter
	if a.RateLimit > 0 {
		limiter = NewHostLimiter(a.RateLimit)
	}

	resultCh := make(chan acquireResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, c := range candidates {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				resultCh <- a.acquireOne(gctx, limiter, referer, i, c, rules)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Slots are indexed by candidate index so output order never depends on
	// completion order.
	slots := make([]*pptstealer.DecodedImage, len(candidates))
	current := 0
	for result := range resultCh {
		current++
		switch {
		case result.err != nil:
			stats.Failed++
		case result.rejected:
			stats.Rejected++
		default:
			stats.Passed++
			slots[result.index] = result.image
		}
		if progress != nil {
			progress(current, stats.Passed, stats.Total)
		}
	}

	if err := ctx.Err(); err != nil {
		clear(slots)
		return nil, stats, err
	}

	images := make([]*pptstealer.DecodedImage, 0, stats.Passed)
	for _, img := range slots {
		if img != nil {
			images = append(images, img)
		}
	}
	return images, stats, nil
}

// acquireOne downloads, decodes and checks a single candidate.
func (a *Acquirer) acquireOne(ctx context.Context, limiter *HostLimiter, referer string, index int, c pptstealer.ImageCandidate, rules pptstealer.FilterRules) acquireResult {
	result := acquireResult{index: index}

	if limiter != nil {
		u, err := url.Parse(c.URL)
		if err != nil {
			result.err = err
			return result
		}
		if err := limiter.Wait(ctx, u.Host); err != nil {
			result.err = err
			return result
		}
	}

	data, err := DownloadWithRetry(ctx, c.URL, referer, a.Downloader.Download, a.RetryDelays)
	if err != nil {
		result.err = err
		return result
	}

	width, height, format, err := Decode(data)
	if err != nil {
		result.err = fmt.Errorf("%s: %w", c.URL, err)
		return result
	}

	if !rules.AcceptsGeometry(width, height) {
		result.rejected = true
		return result
	}

	result.image = &pptstealer.DecodedImage{
		Position: c.Position,
		Width:    width,
		Height:   height,
		Format:   format,
		Data:     data,
	}
	return result
}
