package pdfcpu_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"regexp"
	"strconv"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/starchen4/pptstealer"
	"github.com/starchen4/pptstealer/pdfcpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	return img
}

func encodedImage(t *testing.T, format pptstealer.ImageFormat, position, w, h int) *pptstealer.DecodedImage {
	t.Helper()

	var buf bytes.Buffer
	img := testImage(w, h)
	switch format {
	case pptstealer.FormatJPEG:
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	case pptstealer.FormatPNG:
		require.NoError(t, png.Encode(&buf, img))
	case pptstealer.FormatGIF:
		require.NoError(t, gif.Encode(&buf, img, nil))
	default:
		t.Fatalf("unsupported test format %s", format)
	}
	return &pptstealer.DecodedImage{Position: position, Width: w, Height: h, Format: format, Data: buf.Bytes()}
}

func pageCount(t *testing.T, doc []byte) int {
	t.Helper()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(doc), model.NewDefaultConfiguration())
	require.NoError(t, err)
	return ctx.PageCount
}

// imageMatrix is the transform a page's content stream applies to its image.
type imageMatrix struct {
	width, height, x, y float64
}

var imageCM = regexp.MustCompile(`q\s+([\d.]+)\s+[\d.]+\s+[\d.]+\s+([\d.]+)\s+([\d.]+)\s+([\d.]+)\s+cm\s+/Im0 Do`)

// pageImages reads back the image transform of every page in doc.
func pageImages(t *testing.T, doc []byte) []imageMatrix {
	t.Helper()

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(doc), model.NewDefaultConfiguration())
	require.NoError(t, err)

	out := make([]imageMatrix, 0, ctx.PageCount)
	for n := 1; n <= ctx.PageCount; n++ {
		d, _, _, err := ctx.PageDict(n, false)
		require.NoError(t, err)
		content, err := ctx.PageContent(d, n)
		require.NoError(t, err)

		m := imageCM.FindSubmatch(content)
		require.NotNil(t, m, "page %d content: %s", n, content)
		var v [4]float64
		for i := range v {
			v[i], err = strconv.ParseFloat(string(m[i+1]), 64)
			require.NoError(t, err)
		}
		out = append(out, imageMatrix{width: v[0], height: v[1], x: v[2], y: v[3]})
	}
	return out
}

func TestAssembler_Assemble(t *testing.T) {
	t.Parallel()

	t.Run("writes one page per image", func(t *testing.T) {
		t.Parallel()

		images := []*pptstealer.DecodedImage{
			encodedImage(t, pptstealer.FormatPNG, 2, 800, 600),
			encodedImage(t, pptstealer.FormatJPEG, 3, 1280, 720),
			encodedImage(t, pptstealer.FormatPNG, 5, 500, 300),
		}

		var calls [][2]int
		doc, err := pdfcpu.NewAssembler().Assemble(context.Background(), images, func(current, total int) {
			calls = append(calls, [2]int{current, total})
		})

		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
		assert.Equal(t, 3, pageCount(t, doc))
		assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
	})

	t.Run("places images centered, in order, never enlarged", func(t *testing.T) {
		t.Parallel()

		images := []*pptstealer.DecodedImage{
			encodedImage(t, pptstealer.FormatPNG, 0, 500, 300),
			encodedImage(t, pptstealer.FormatPNG, 1, 1280, 720),
			encodedImage(t, pptstealer.FormatJPEG, 2, 800, 600),
		}

		doc, err := pdfcpu.NewAssembler().Assemble(context.Background(), images, nil)
		require.NoError(t, err)

		got := pageImages(t, doc)
		require.Len(t, got, 3)

		// A small image keeps its native size.
		assert.InDelta(t, 500, got[0].width, 0.01)
		assert.InDelta(t, 300, got[0].height, 0.01)
		assert.InDelta(t, 170.945, got[0].x, 0.01)
		assert.InDelta(t, 147.64, got[0].y, 0.01)

		// A wide image is shrunk to the page width.
		assert.InDelta(t, 841.89, got[1].width, 0.01)
		assert.InDelta(t, 473.56, got[1].height, 0.01)
		assert.InDelta(t, 0, got[1].x, 0.01)

		// A 4:3 image is shrunk to the page height.
		assert.InDelta(t, 793.71, got[2].width, 0.01)
		assert.InDelta(t, 595.28, got[2].height, 0.01)
		assert.InDelta(t, 0, got[2].y, 0.01)

		for i, m := range got {
			assert.LessOrEqual(t, m.width, float64(images[i].Width)+0.01)
			assert.LessOrEqual(t, m.height, float64(images[i].Height)+0.01)
		}
	})

	t.Run("concurrent runs do not interfere", func(t *testing.T) {
		t.Parallel()

		a := pdfcpu.NewAssembler()
		docs := make([][]byte, 4)
		errs := make([]error, 4)
		done := make(chan struct{})
		for i := range docs {
			images := []*pptstealer.DecodedImage{}
			for range i + 1 {
				images = append(images, encodedImage(t, pptstealer.FormatPNG, 0, 640, 480))
			}
			go func() {
				defer func() { done <- struct{}{} }()
				docs[i], errs[i] = a.Assemble(context.Background(), images, nil)
			}()
		}
		for range docs {
			<-done
		}

		for i := range docs {
			require.NoError(t, errs[i])
			assert.Equal(t, i+1, pageCount(t, docs[i]))
		}
	})

	t.Run("single image yields a single page", func(t *testing.T) {
		t.Parallel()

		images := []*pptstealer.DecodedImage{encodedImage(t, pptstealer.FormatPNG, 2, 800, 600)}

		doc, err := pdfcpu.NewAssembler(pdfcpu.WithMargin(20)).Assemble(context.Background(), images, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, pageCount(t, doc))
	})

	t.Run("re-encodes formats the writer cannot embed", func(t *testing.T) {
		t.Parallel()

		images := []*pptstealer.DecodedImage{encodedImage(t, pptstealer.FormatGIF, 0, 700, 500)}

		doc, err := pdfcpu.NewAssembler().Assemble(context.Background(), images, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, pageCount(t, doc))
	})

	t.Run("releases image data after writing", func(t *testing.T) {
		t.Parallel()

		images := []*pptstealer.DecodedImage{
			encodedImage(t, pptstealer.FormatPNG, 0, 800, 600),
			encodedImage(t, pptstealer.FormatPNG, 1, 800, 600),
		}

		_, err := pdfcpu.NewAssembler().Assemble(context.Background(), images, nil)

		require.NoError(t, err)
		for _, img := range images {
			assert.Nil(t, img.Data)
		}
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		images := []*pptstealer.DecodedImage{encodedImage(t, pptstealer.FormatPNG, 0, 800, 600)}
		doc, err := pdfcpu.NewAssembler().Assemble(ctx, images, nil)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, doc)
	})

	t.Run("rejects an empty image list", func(t *testing.T) {
		t.Parallel()

		_, err := pdfcpu.NewAssembler().Assemble(context.Background(), nil, nil)

		assert.Equal(t, pptstealer.EINVALID, pptstealer.ErrorCode(err))
	})

	t.Run("rejects corrupt image data", func(t *testing.T) {
		t.Parallel()

		images := []*pptstealer.DecodedImage{{Width: 800, Height: 600, Format: pptstealer.FormatWebP, Data: []byte("RIFF")}}

		_, err := pdfcpu.NewAssembler().Assemble(context.Background(), images, nil)

		assert.Error(t, err)
	})
}
