package slog

import (
	"log/slog"

	"github.com/starchen4/pptstealer"
)

// Ensure LoggingReporter implements pptstealer.Reporter.
var _ pptstealer.Reporter = (*LoggingReporter)(nil)

// LoggingReporter logs stage changes and terminal events before passing every
// event on. Repeated events within a stage log at debug level.
// A LoggingReporter follows a single run and is not safe for concurrent use.
type LoggingReporter struct {
	next   pptstealer.Reporter
	logger *slog.Logger
	last   pptstealer.Stage
}

// NewLoggingReporter creates a new LoggingReporter. A nil next discards events.
func NewLoggingReporter(next pptstealer.Reporter, logger *slog.Logger) *LoggingReporter {
	if next == nil {
		next = pptstealer.Discard
	}
	return &LoggingReporter{next: next, logger: logger}
}

// Report logs ev and delegates to the wrapped reporter.
func (r *LoggingReporter) Report(ev pptstealer.Event) {
	attrs := []any{
		"run_id", ev.RunID,
		"stage", ev.Stage,
		"progress", ev.Progress,
	}

	switch {
	case ev.Stage == pptstealer.StageError:
		r.logger.Error("run failed", append(attrs, "error_type", ev.ErrorType, "err", ev.Error)...)
	case ev.Stage == pptstealer.StageCompleted:
		r.logger.Info("run completed", append(attrs, "filename", ev.Filename, "bytes", len(ev.Document))...)
	case ev.Stage != r.last:
		r.logger.Info(ev.Message, attrs...)
	default:
		r.logger.Debug(ev.Message, attrs...)
	}
	r.last = ev.Stage

	r.next.Report(ev)
}
