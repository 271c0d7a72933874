package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starchen4/pptstealer"
	main "github.com/starchen4/pptstealer/cmd/pptstealer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pptstealer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty path returns defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.LoadConfig("")

		require.NoError(t, err)
		assert.Equal(t, ":8000", cfg.Server.Addr)
		assert.Equal(t, 4, cfg.Download.Concurrency)
		assert.Equal(t, pptstealer.DefaultFilterRules(), cfg.Filters)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		t.Parallel()

		// Given a file setting a few values in each section
		path := writeConfig(t, `
server:
  addr: 127.0.0.1:9000
fetch:
  browser: true
  timeout: 45s
download:
  concurrency: 8
  retry_delays: [500ms, 1s, 2s]
pdf:
  margin: 18
filters:
  allowed_domains: [example.com]
  trim_leading: 0
`)

		// When loading it
		cfg, err := main.LoadConfig(path)

		// Then set values replace defaults and the rest are kept
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
		assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
		assert.True(t, cfg.Fetch.Browser)
		assert.Equal(t, 45*time.Second, cfg.Fetch.Timeout)
		assert.Equal(t, 8, cfg.Download.Concurrency)
		assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second}, cfg.Download.RetryDelays)
		assert.InDelta(t, 18.0, cfg.PDF.Margin, 1e-9)
		assert.Equal(t, []string{"example.com"}, cfg.Filters.AllowedDomains)
		assert.Equal(t, 0, cfg.Filters.TrimLeading)
		assert.Equal(t, 2, cfg.Filters.TrimTrailing)
		assert.Equal(t, 600, cfg.Filters.MinWidth)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(writeConfig(t, "server: [unclosed"))

		require.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Parallel()

		tests := map[string]string{
			"negative concurrency": "download:\n  concurrency: -1\n",
			"negative rate limit":  "download:\n  rate_limit: -2\n",
			"negative margin":      "pdf:\n  margin: -1\n",
			"inverted aspect":      "filters:\n  aspect_ratio_min: 2\n  aspect_ratio_max: 1\n",
		}
		for name, content := range tests {
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				_, err := main.LoadConfig(writeConfig(t, content))

				require.Error(t, err)
				assert.Equal(t, pptstealer.EINVALID, pptstealer.ErrorCode(err))
			})
		}
	})
}
