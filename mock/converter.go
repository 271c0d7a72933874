package mock

import (
	"context"

	"github.com/starchen4/pptstealer"
)

var _ pptstealer.Converter = (*Converter)(nil)

// Converter is a mock implementation of pptstealer.Converter.
type Converter struct {
	ConvertFn func(ctx context.Context, sourceURL string, rules pptstealer.FilterRules, reporter pptstealer.Reporter) (*pptstealer.Result, error)
}

func (c *Converter) Convert(ctx context.Context, sourceURL string, rules pptstealer.FilterRules, reporter pptstealer.Reporter) (*pptstealer.Result, error) {
	return c.ConvertFn(ctx, sourceURL, rules, reporter)
}
