// Package pipeline runs the article-to-document conversion: fetch the page,
// extract and filter image candidates, acquire the images and assemble them.
package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/starchen4/pptstealer"
)

// Progress milestones, in percent.
const (
	progressFetch      = 5
	progressExtract    = 15
	progressFilter     = 25
	progressTrim       = 30
	progressDownloaded = 80
	progressAssembled  = 99
)

var errNoValidImages = pptstealer.Errorf(pptstealer.ENOVALIDIMAGES, "no images passed validation")

// maxFilenameRunes bounds the title part of a suggested filename.
const maxFilenameRunes = 100

// Ensure Pipeline implements pptstealer.Converter at compile time.
var _ pptstealer.Converter = (*Pipeline)(nil)

// Pipeline is the linear stage machine behind pptstealer.Converter.
// A Pipeline holds no per-run state and may serve concurrent runs.
type Pipeline struct {
	Fetcher   pptstealer.Fetcher
	Extractor pptstealer.Extractor
	Acquirer  *Acquirer
	Assembler pptstealer.Assembler
}

// Convert runs every stage for sourceURL and reports progress to reporter.
// On failure the returned error is the one carried by the error event.
func (p *Pipeline) Convert(ctx context.Context, sourceURL string, rules pptstealer.FilterRules, reporter pptstealer.Reporter) (*pptstealer.Result, error) {
	run := pptstealer.NewRunState(uuid.NewString(), reporter)

	result, err := p.run(ctx, run, sourceURL, rules)
	if err != nil {
		if ctx.Err() != nil {
			err = pptstealer.Errorf(pptstealer.EINTERNAL, "run canceled: %v", ctx.Err())
		}
		run.Fail(err)
		return nil, err
	}

	run.Complete(result)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, run *pptstealer.RunState, sourceURL string, rules pptstealer.FilterRules) (*pptstealer.Result, error) {
	if err := validateSourceURL(sourceURL); err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	// Fetch
	if err := run.Enter(pptstealer.StageFetchingHTML, progressFetch, "Fetching article"); err != nil {
		return nil, err
	}
	html, err := p.Fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, pptstealer.Errorf(pptstealer.EFETCH, "failed to fetch article: %v", err)
	}

	// Extract
	if err := run.Enter(pptstealer.StageExtractingURLs, progressExtract, "Extracting image URLs"); err != nil {
		return nil, err
	}
	extraction, err := p.Extractor.Extract(html, sourceURL)
	if err != nil {
		return nil, err
	}
	run.Found = len(extraction.Candidates)
	run.Emit(progressExtract, fmt.Sprintf("Found %d images", run.Found))
	if run.Found == 0 {
		return nil, pptstealer.Errorf(pptstealer.ENOIMAGES, "no image tags found on the page")
	}

	// Domain filter and markup geometry fast path
	if err := run.Enter(pptstealer.StageFilteringDomains, progressFilter, "Filtering by domain"); err != nil {
		return nil, err
	}
	allowed := pptstealer.FilterDomains(extraction.Candidates, rules)
	if len(allowed) == 0 {
		run.Passed, run.Total = 0, run.Found
		run.Emit(progressFilter, fmt.Sprintf("0 of %d images kept", run.Total))
		return nil, pptstealer.Errorf(pptstealer.EFILTEREDOUT, "no image URLs left after domain filtering")
	}
	// Hinted sizes that fail the geometry rules count as validation losses,
	// the same as sizes learned after download.
	narrowed := pptstealer.FilterGeometryHints(allowed, rules)
	run.Passed, run.Total = len(narrowed), run.Found
	run.Emit(progressFilter, fmt.Sprintf("%d of %d images kept", run.Passed, run.Total))
	if len(narrowed) == 0 {
		return nil, errNoValidImages
	}

	// Trim
	if err := run.Enter(pptstealer.StageTrimmingEdges, progressTrim, "Trimming cover and closing images"); err != nil {
		return nil, err
	}
	trimmed := pptstealer.TrimEdges(narrowed, rules.TrimLeading, rules.TrimTrailing)
	run.Passed, run.Total = len(trimmed), len(narrowed)
	run.Emit(progressTrim, fmt.Sprintf("%d of %d images kept", run.Passed, run.Total))
	if len(trimmed) == 0 {
		return nil, pptstealer.Errorf(pptstealer.ENOVALIDIMAGES, "no images left after trimming")
	}

	// Acquire
	if err := run.Enter(pptstealer.StageDownloadingImages, progressTrim, "Downloading images"); err != nil {
		return nil, err
	}
	images, stats, err := p.Acquirer.Acquire(ctx, sourceURL, trimmed, rules, func(current, passed, total int) {
		run.Current, run.Passed, run.Total = current, passed, total
		run.Emit(progressTrim+(progressDownloaded-progressTrim)*current/total,
			fmt.Sprintf("Downloaded %d/%d images", current, total))
	})
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, errNoValidImages
	}

	// Assemble
	if err := run.Enter(pptstealer.StageGeneratingPDF, progressDownloaded, "Generating PDF"); err != nil {
		return nil, err
	}
	run.TotalPages = len(images)
	doc, err := p.Assembler.Assemble(ctx, images, func(current, total int) {
		run.CurrentPage, run.TotalPages = current, total
		run.Emit(progressDownloaded+(progressAssembled-progressDownloaded)*current/total,
			fmt.Sprintf("Rendered page %d/%d", current, total))
	})
	if err != nil {
		return nil, fmt.Errorf("assemble document: %w", err)
	}

	return &pptstealer.Result{
		RunID:    run.ID,
		Title:    extraction.Title,
		Filename: Filename(extraction.Title, sourceURL),
		Document: doc,
		Pages:    len(images),
		Found:    run.Found,
		Total:    stats.Total,
		Passed:   stats.Passed,
	}, nil
}

// validateSourceURL accepts absolute http(s) URLs only.
func validateSourceURL(sourceURL string) error {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return pptstealer.Errorf(pptstealer.EINVALID, "invalid url: %v", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return pptstealer.Errorf(pptstealer.EINVALID, "url must be an absolute http(s) URL")
	}
	return nil
}

// Filename suggests a document filename from the article title. Characters
// that are unsafe in filenames become underscores. Without a usable title the
// name is derived from a hash of sourceURL.
func Filename(title, sourceURL string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case unicode.IsControl(r), strings.ContainsRune(`/\:*?"<>|`, r):
			r = '_'
		}
		if space && b.Len() > 0 {
			b.WriteRune(' ')
		}
		space = false
		b.WriteRune(r)
	}

	name := []rune(strings.Trim(b.String(), ". "))
	if len(name) > maxFilenameRunes {
		name = []rune(strings.TrimRight(string(name[:maxFilenameRunes]), ". "))
	}
	if len(name) == 0 {
		return fmt.Sprintf("ppt-%x.pdf", xxhash.Sum64String(sourceURL))
	}
	return string(name) + ".pdf"
}
