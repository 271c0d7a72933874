package mock

import (
	"context"

	"github.com/starchen4/pptstealer"
)

var _ pptstealer.ResultWriter = (*ResultWriter)(nil)

// ResultWriter is a mock implementation of pptstealer.ResultWriter.
type ResultWriter struct {
	WriteResultFn func(ctx context.Context, result *pptstealer.Result) (string, error)
}

func (w *ResultWriter) WriteResult(ctx context.Context, result *pptstealer.Result) (string, error) {
	return w.WriteResultFn(ctx, result)
}
