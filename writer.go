package pptstealer

import "context"

// ResultWriter stores the document of a finished run.
type ResultWriter interface {
	// WriteResult stores result.Document and returns where it was written.
	WriteResult(ctx context.Context, result *Result) (string, error)
}
