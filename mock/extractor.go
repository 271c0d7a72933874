package mock

import "github.com/starchen4/pptstealer"

var _ pptstealer.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pptstealer.Extractor.
type Extractor struct {
	ExtractFn func(html string, baseURL string) (*pptstealer.Extraction, error)
}

func (e *Extractor) Extract(html string, baseURL string) (*pptstealer.Extraction, error) {
	return e.ExtractFn(html, baseURL)
}
