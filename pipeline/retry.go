package pipeline

import (
	"context"
	"time"
)

// DownloadFunc is the signature for a download function.
type DownloadFunc func(ctx context.Context, url, referer string) ([]byte, error)

// DownloadWithRetry calls download once, then once more after each of delays
// while it keeps failing. A nil or empty delays means a single attempt.
// The last error is returned if every attempt fails.
func DownloadWithRetry(ctx context.Context, url, referer string, download DownloadFunc, delays []time.Duration) ([]byte, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		data, err := download(ctx, url, referer)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
