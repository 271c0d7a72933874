// Package goquery implements pptstealer.Extractor using goquery.
package goquery

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/starchen4/pptstealer"
)

// Ensure Extractor implements pptstealer.Extractor at compile time.
var _ pptstealer.Extractor = (*Extractor)(nil)

// Extractor finds <img> references in article HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and every usable <img> reference in document
// order. Lazy-loaded images keep their real URL in data-src, so it wins over src.
func (e *Extractor) Extract(html string, baseURL string) (*pptstealer.Extraction, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, pptstealer.Errorf(pptstealer.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pptstealer.Errorf(pptstealer.EINVALID, "failed to parse HTML: %v", err)
	}

	ext := &pptstealer.Extraction{
		Title:      extractTitle(doc),
		Candidates: []pptstealer.ImageCandidate{},
	}

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src := strings.TrimSpace(sel.AttrOr("data-src", ""))
		if src == "" {
			src = strings.TrimSpace(sel.AttrOr("src", ""))
		}
		if src == "" || isNonHTTPLink(src) {
			return
		}

		resolved := resolveURL(base, src)
		if resolved == "" {
			return
		}

		w, h := sizeHint(sel)
		ext.Candidates = append(ext.Candidates, pptstealer.ImageCandidate{
			URL:      resolved,
			Position: len(ext.Candidates),
			Width:    w,
			Height:   h,
		})
	})

	return ext, nil
}

// extractTitle prefers og:title, then the WeChat headline, then <title>.
func extractTitle(doc *goquery.Document) string {
	if t, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	if t := strings.TrimSpace(doc.Find("#activity-name").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// sizeHint reads the size WeChat advertises on lazy images: data-w is the
// width in pixels and data-ratio is height/width. Missing or malformed
// attributes yield 0, 0.
func sizeHint(sel *goquery.Selection) (int, int) {
	w, err := strconv.Atoi(strings.TrimSpace(sel.AttrOr("data-w", "")))
	if err != nil || w <= 0 {
		return 0, 0
	}
	ratio, err := strconv.ParseFloat(strings.TrimSpace(sel.AttrOr("data-ratio", "")), 64)
	if err != nil || ratio <= 0 || math.IsInf(ratio, 0) || math.IsNaN(ratio) {
		return 0, 0
	}
	return w, int(math.Round(float64(w) * ratio))
}

// resolveURL resolves href against base and returns it only if the result is
// an absolute http(s) URL. Fragments are dropped.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if resolved.Host == "" {
		return ""
	}
	return resolved.String()
}

// isNonHTTPLink checks if a reference uses a scheme that never names a fetchable image.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "blob:")
}
