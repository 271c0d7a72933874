// Package pdfcpu implements pptstealer.Assembler on top of pdfcpu.
package pdfcpu

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/starchen4/pptstealer"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Ensure Assembler implements pptstealer.Assembler at compile time.
var _ pptstealer.Assembler = (*Assembler)(nil)

// Assembler writes one A4 landscape page per image. Images are centered and
// shrunk to fit the printable area, never enlarged.
type Assembler struct {
	page       pptstealer.Size
	margin     float64
	validation int
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithMargin sets a symmetric page margin in points. Defaults to 0.
func WithMargin(points float64) Option {
	return func(a *Assembler) {
		a.margin = max(points, 0)
	}
}

// WithPageSize overrides the page size in points. Defaults to pptstealer.A4Landscape.
func WithPageSize(size pptstealer.Size) Option {
	return func(a *Assembler) {
		a.page = size
	}
}

// NewAssembler creates a new Assembler.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		page:       pptstealer.A4Landscape,
		validation: model.ValidationRelaxed,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble writes images in slice order and returns the PDF. Pages are added
// to a single in-memory document that is serialized once at the end. Each
// image's Data is released once its page is added.
func (a *Assembler) Assemble(ctx context.Context, images []*pptstealer.DecodedImage, progress pptstealer.PageProgressFunc) ([]byte, error) {
	if len(images) == 0 {
		return nil, pptstealer.Errorf(pptstealer.EINVALID, "no images to assemble")
	}

	conf := a.configuration()
	doc, err := pdfcpu.CreateContextWithXRefTable(conf, a.pageDim())
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	pagesRef, err := doc.Pages()
	if err != nil {
		return nil, fmt.Errorf("page tree: %w", err)
	}
	pages, err := doc.DereferenceDict(*pagesRef)
	if err != nil {
		return nil, fmt.Errorf("page tree: %w", err)
	}

	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := a.addPage(doc, pagesRef, pages, img); err != nil {
			return nil, fmt.Errorf("page %d (position %d): %w", i+1, img.Position, err)
		}
		img.Data = nil

		if progress != nil {
			progress(i+1, len(images))
		}
	}

	var out bytes.Buffer
	if err := api.Write(doc, &out, conf); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	return out.Bytes(), nil
}

// addPage appends a page holding img to the page tree of doc.
func (a *Assembler) addPage(doc *model.Context, pagesRef *types.IndirectRef, pages types.Dict, img *pptstealer.DecodedImage) error {
	placement := pptstealer.FitImage(img.Width, img.Height, a.page, a.margin)
	if placement.Scale <= 0 {
		return fmt.Errorf("image has no printable size %dx%d", img.Width, img.Height)
	}

	data, err := embeddable(img)
	if err != nil {
		return err
	}

	imp := pdfcpu.DefaultImportConfig()
	imp.PageDim = a.pageDim()
	imp.Pos = types.Center
	imp.Scale = placement.Scale
	imp.ScaleAbs = true
	imp.InpUnit = types.POINTS

	refs, err := pdfcpu.NewPagesForImage(doc.XRefTable, bytes.NewReader(data), pagesRef, imp)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if err := doc.SetValid(*ref); err != nil {
			return err
		}
		if err := model.AppendPageTree(ref, 1, pages); err != nil {
			return err
		}
		doc.PageCount++
	}
	return nil
}

// configuration returns a fresh pdfcpu configuration. Writing mutates it, so
// concurrent runs must not share one.
func (a *Assembler) configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = a.validation
	conf.Cmd = model.IMPORTIMAGES
	return conf
}

func (a *Assembler) pageDim() *types.Dim {
	return &types.Dim{Width: a.page.Width, Height: a.page.Height}
}

// embeddable returns img as JPEG or PNG bytes, re-encoding other formats to PNG.
func embeddable(img *pptstealer.DecodedImage) ([]byte, error) {
	switch img.Format {
	case pptstealer.FormatJPEG, pptstealer.FormatPNG:
		return img.Data, nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", img.Format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, decoded); err != nil {
		return nil, fmt.Errorf("re-encode %s as png: %w", img.Format, err)
	}
	return buf.Bytes(), nil
}
