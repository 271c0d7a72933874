package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/starchen4/pptstealer/mock"
	ppslog "github.com/starchen4/pptstealer/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := ppslog.NewLoggingFetcher(inner, logger)
		html, err := fetcher.Fetch(context.Background(), "https://mp.weixin.qq.com/s/abc")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "url=https://mp.weixin.qq.com/s/abc")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("network error")
			},
		}

		fetcher := ppslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://mp.weixin.qq.com/s/abc")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "err=\"network error\"")
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	closeCalled := false
	inner := &mock.Fetcher{
		CloseFn: func() error {
			closeCalled = true
			return nil
		},
	}

	fetcher := ppslog.NewLoggingFetcher(inner, logger)
	err := fetcher.Close()

	require.NoError(t, err)
	assert.True(t, closeCalled)
}

func TestLoggingDownloader_Download(t *testing.T) {
	t.Parallel()

	t.Run("logs success at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Downloader{
			DownloadFn: func(context.Context, string, string) ([]byte, error) {
				return make([]byte, 42), nil
			},
		}

		data, err := ppslog.NewLoggingDownloader(inner, logger).Download(context.Background(), "https://mmbiz.qpic.cn/a.png", "https://mp.weixin.qq.com/s/abc")

		require.NoError(t, err)
		assert.Len(t, data, 42)
		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "url=https://mmbiz.qpic.cn/a.png")
		assert.Contains(t, output, "bytes=42")
	})

	t.Run("success is silent at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Downloader{
			DownloadFn: func(context.Context, string, string) ([]byte, error) {
				return []byte("img"), nil
			},
		}

		_, err := ppslog.NewLoggingDownloader(inner, logger).Download(context.Background(), "https://mmbiz.qpic.cn/a.png", "")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})

	t.Run("logs failure at warn level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Downloader{
			DownloadFn: func(context.Context, string, string) ([]byte, error) {
				return nil, errors.New("HTTP 403")
			},
		}

		_, err := ppslog.NewLoggingDownloader(inner, logger).Download(context.Background(), "https://mmbiz.qpic.cn/a.png", "")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, `err="HTTP 403"`)
	})
}
