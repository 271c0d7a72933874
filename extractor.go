package pptstealer

// ImageCandidate is an image reference found in the article markup, before it
// has been downloaded or validated.
type ImageCandidate struct {
	// URL is the absolute image URL.
	URL string

	// Position is the 0-based index of the candidate in document order.
	Position int

	// Width and Height are the size advertised by the markup, if any.
	// Zero means unknown; the authoritative size is read after download.
	Width  int
	Height int
}

// HasGeometry reports whether the markup advertised the image size.
func (c ImageCandidate) HasGeometry() bool {
	return c.Width > 0 && c.Height > 0
}

// Extraction holds what an Extractor found on an article page.
type Extraction struct {
	// Title is the article title, empty if none was found.
	Title string

	// Candidates lists image references in document order.
	Candidates []ImageCandidate
}

// Extractor finds image references in article markup.
type Extractor interface {
	// Extract parses html and returns its image candidates in document order.
	// The baseURL is used to resolve relative references; references that
	// cannot be resolved to an absolute http(s) URL are skipped.
	Extract(html string, baseURL string) (*Extraction, error)
}
