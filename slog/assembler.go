package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/starchen4/pptstealer"
)

// Ensure LoggingAssembler implements pptstealer.Assembler.
var _ pptstealer.Assembler = (*LoggingAssembler)(nil)

// LoggingAssembler wraps an Assembler with logging.
type LoggingAssembler struct {
	next   pptstealer.Assembler
	logger *slog.Logger
}

// NewLoggingAssembler creates a new LoggingAssembler.
func NewLoggingAssembler(next pptstealer.Assembler, logger *slog.Logger) *LoggingAssembler {
	return &LoggingAssembler{next: next, logger: logger}
}

// Assemble delegates to the wrapped assembler and logs the page count and size.
func (a *LoggingAssembler) Assemble(ctx context.Context, images []*pptstealer.DecodedImage, progress pptstealer.PageProgressFunc) (doc []byte, err error) {
	defer func(begin time.Time) {
		a.logger.Info("assemble",
			"pages", len(images),
			"bytes", len(doc),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Assemble(ctx, images, progress)
}
