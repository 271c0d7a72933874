package pptstealer

import (
	"net/url"
	"strings"
)

// Default filter settings, tuned for slide decks published as WeChat articles.
const (
	DefaultMinArea        = 300_000
	DefaultMinWidth       = 600
	DefaultMinHeight      = 400
	DefaultAspectRatioMin = 0.6
	DefaultAspectRatioMax = 1.8
	DefaultTrimLeading    = 2
	DefaultTrimTrailing   = 2
)

// DefaultAllowedDomains lists the image hosts accepted by default.
var DefaultAllowedDomains = []string{"mmbiz.qpic.cn"}

// FilterRules describes which image candidates count as slides.
// A FilterRules value is fixed for the lifetime of a run.
type FilterRules struct {
	// AllowedDomains lists accepted image hosts. Subdomains of a listed host
	// are accepted too. An empty list accepts any host.
	AllowedDomains []string `json:"allowed_domains" yaml:"allowed_domains"`

	MinArea   int `json:"min_area" yaml:"min_area"`
	MinWidth  int `json:"min_width" yaml:"min_width"`
	MinHeight int `json:"min_height" yaml:"min_height"`

	// AspectRatioMin and AspectRatioMax bound width/height.
	AspectRatioMin float64 `json:"aspect_ratio_min" yaml:"aspect_ratio_min"`
	AspectRatioMax float64 `json:"aspect_ratio_max" yaml:"aspect_ratio_max"`

	// TrimLeading and TrimTrailing drop cover and closing images.
	TrimLeading  int `json:"trim_leading" yaml:"trim_leading"`
	TrimTrailing int `json:"trim_trailing" yaml:"trim_trailing"`
}

// DefaultFilterRules returns the default rule set.
func DefaultFilterRules() FilterRules {
	return FilterRules{
		AllowedDomains: append([]string(nil), DefaultAllowedDomains...),
		MinArea:        DefaultMinArea,
		MinWidth:       DefaultMinWidth,
		MinHeight:      DefaultMinHeight,
		AspectRatioMin: DefaultAspectRatioMin,
		AspectRatioMax: DefaultAspectRatioMax,
		TrimLeading:    DefaultTrimLeading,
		TrimTrailing:   DefaultTrimTrailing,
	}
}

// Validate returns an error if the rules contain invalid bounds.
func (r FilterRules) Validate() error {
	switch {
	case r.MinArea < 0:
		return Errorf(EINVALID, "min_area must be >= 0")
	case r.MinWidth < 0:
		return Errorf(EINVALID, "min_width must be >= 0")
	case r.MinHeight < 0:
		return Errorf(EINVALID, "min_height must be >= 0")
	case r.AspectRatioMin < 0:
		return Errorf(EINVALID, "aspect_ratio_min must be >= 0")
	case r.AspectRatioMax < 0:
		return Errorf(EINVALID, "aspect_ratio_max must be >= 0")
	case r.AspectRatioMin > r.AspectRatioMax:
		return Errorf(EINVALID, "aspect_ratio_min (%g) must not exceed aspect_ratio_max (%g)", r.AspectRatioMin, r.AspectRatioMax)
	case r.TrimLeading < 0:
		return Errorf(EINVALID, "trim_leading must be >= 0")
	case r.TrimTrailing < 0:
		return Errorf(EINVALID, "trim_trailing must be >= 0")
	}
	for _, d := range r.AllowedDomains {
		if strings.TrimSpace(d) == "" {
			return Errorf(EINVALID, "allowed_domains must not contain empty entries")
		}
	}
	return nil
}

// AcceptsGeometry reports whether an image of the given pixel size is a slide.
// It is the only size predicate: the markup fast path and the post-download
// check both call it, so both reach the same verdict for the same size.
func (r FilterRules) AcceptsGeometry(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if width < r.MinWidth || height < r.MinHeight {
		return false
	}
	if width*height < r.MinArea {
		return false
	}
	ratio := float64(width) / float64(height)
	return ratio >= r.AspectRatioMin && ratio <= r.AspectRatioMax
}

// AllowsURL reports whether the host of rawURL is an allowed domain.
func (r FilterRules) AllowsURL(rawURL string) bool {
	if len(r.AllowedDomains) == 0 {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, d := range r.AllowedDomains {
		d = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "."))
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// FilterDomains keeps candidates hosted on an allowed domain.
func FilterDomains(candidates []ImageCandidate, rules FilterRules) []ImageCandidate {
	out := make([]ImageCandidate, 0, len(candidates))
	for _, c := range candidates {
		if rules.AllowsURL(c.URL) {
			out = append(out, c)
		}
	}
	return out
}

// FilterGeometryHints drops candidates whose markup-advertised size fails
// AcceptsGeometry. Candidates without a size hint are kept for the
// post-download check.
func FilterGeometryHints(candidates []ImageCandidate, rules FilterRules) []ImageCandidate {
	out := make([]ImageCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.HasGeometry() && !rules.AcceptsGeometry(c.Width, c.Height) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// TrimEdges drops the first leading and last trailing candidates.
// If the trims cover the whole slice the result is empty.
func TrimEdges(candidates []ImageCandidate, leading, trailing int) []ImageCandidate {
	leading, trailing = max(leading, 0), max(trailing, 0)
	if leading+trailing >= len(candidates) {
		return []ImageCandidate{}
	}
	out := make([]ImageCandidate, len(candidates)-leading-trailing)
	copy(out, candidates[leading:len(candidates)-trailing])
	return out
}

// Narrow applies the domain filter and the geometry fast path.
func (r FilterRules) Narrow(candidates []ImageCandidate) []ImageCandidate {
	return FilterGeometryHints(FilterDomains(candidates, r), r)
}

// Apply runs every filter stage in order: domain, geometry fast path, trim.
// Trimming acts on the already narrowed list.
func (r FilterRules) Apply(candidates []ImageCandidate) []ImageCandidate {
	return TrimEdges(r.Narrow(candidates), r.TrimLeading, r.TrimTrailing)
}
