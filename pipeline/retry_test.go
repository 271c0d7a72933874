package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/starchen4/pptstealer/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("single attempt without delays", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := pipeline.DownloadWithRetry(context.Background(), "u", "r", func(context.Context, string, string) ([]byte, error) {
			calls++
			return nil, errors.New("boom")
		}, nil)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		data, err := pipeline.DownloadWithRetry(context.Background(), "u", "r", func(context.Context, string, string) ([]byte, error) {
			calls++
			if calls < 3 {
				return nil, errors.New("transient")
			}
			return []byte("ok"), nil
		}, []time.Duration{0, 0, 0})

		require.NoError(t, err)
		assert.Equal(t, []byte("ok"), data)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error when all attempts fail", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := pipeline.DownloadWithRetry(context.Background(), "u", "r", func(context.Context, string, string) ([]byte, error) {
			calls++
			return nil, errors.New("attempt failed")
		}, []time.Duration{0, 0})

		require.EqualError(t, err, "attempt failed")
		assert.Equal(t, 3, calls)
	})

	t.Run("stops waiting when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		_, err := pipeline.DownloadWithRetry(ctx, "u", "r", func(context.Context, string, string) ([]byte, error) {
			cancel()
			return nil, errors.New("fail")
		}, []time.Duration{time.Hour})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
