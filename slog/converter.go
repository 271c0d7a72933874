package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/starchen4/pptstealer"
)

// Ensure LoggingConverter implements pptstealer.Converter.
var _ pptstealer.Converter = (*LoggingConverter)(nil)

// LoggingConverter wraps a Converter so that every run logs its events
// through a LoggingReporter and its outcome once it returns.
type LoggingConverter struct {
	next   pptstealer.Converter
	logger *slog.Logger
}

// NewLoggingConverter creates a new LoggingConverter.
func NewLoggingConverter(next pptstealer.Converter, logger *slog.Logger) *LoggingConverter {
	return &LoggingConverter{next: next, logger: logger}
}

// Convert delegates to the wrapped converter with a logging reporter in front of reporter.
func (c *LoggingConverter) Convert(ctx context.Context, sourceURL string, rules pptstealer.FilterRules, reporter pptstealer.Reporter) (result *pptstealer.Result, err error) {
	defer func(begin time.Time) {
		pages := 0
		if result != nil {
			pages = result.Pages
		}
		c.logger.Info("convert",
			"url", sourceURL,
			"pages", pages,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Convert(ctx, sourceURL, rules, NewLoggingReporter(reporter, c.logger))
}
