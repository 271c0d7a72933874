package slog_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/starchen4/pptstealer"
	ppslog "github.com/starchen4/pptstealer/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingReporter_Report(t *testing.T) {
	t.Parallel()

	t.Run("passes every event through in order", func(t *testing.T) {
		t.Parallel()

		var log pptstealer.EventLog
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		r := ppslog.NewLoggingReporter(&log, logger)

		s := pptstealer.NewRunState("run-1", r)
		require.NoError(t, s.Enter(pptstealer.StageFetchingHTML, 5, "Fetching article"))
		s.Fail(pptstealer.Errorf(pptstealer.EFETCH, "timeout"))

		events := log.Events()
		require.Len(t, events, 2)
		assert.Equal(t, pptstealer.StageFetchingHTML, events[0].Stage)
		assert.Equal(t, pptstealer.StageError, events[1].Stage)
	})

	t.Run("logs stage changes at info and repeats at debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		r := ppslog.NewLoggingReporter(nil, logger)

		s := pptstealer.NewRunState("run-2", r)
		require.NoError(t, s.Enter(pptstealer.StageFetchingHTML, 5, "Fetching article"))
		require.NoError(t, s.Enter(pptstealer.StageExtractingURLs, 15, "Extracting image URLs"))
		s.Emit(15, "Found 3 images")

		output := buf.String()
		assert.Contains(t, output, "Fetching article")
		assert.Contains(t, output, "Extracting image URLs")
		assert.NotContains(t, output, "Found 3 images")
		assert.Contains(t, output, "run_id=run-2")
		assert.Equal(t, 2, strings.Count(output, "\n"))
	})

	t.Run("logs failures with their error type", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		r := ppslog.NewLoggingReporter(nil, logger)

		s := pptstealer.NewRunState("run-3", r)
		s.Fail(pptstealer.Errorf(pptstealer.ENOIMAGES, "no image tags found on the page"))

		output := buf.String()
		assert.Contains(t, output, "level=ERROR")
		assert.Contains(t, output, "error_type=no_images")
	})

	t.Run("logs completion with the filename", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		r := ppslog.NewLoggingReporter(nil, logger)

		s := pptstealer.NewRunState("run-4", r)
		s.Complete(&pptstealer.Result{Filename: "deck.pdf", Document: []byte("%PDF")})

		output := buf.String()
		assert.Contains(t, output, "run completed")
		assert.Contains(t, output, "filename=deck.pdf")
		assert.Contains(t, output, "bytes=4")
	})
}
