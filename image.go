package pptstealer

import "context"

// ImageFormat identifies the encoding of a downloaded image.
type ImageFormat string

// Image formats the decoder understands.
const (
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
	FormatGIF  ImageFormat = "gif"
	FormatWebP ImageFormat = "webp"
	FormatBMP  ImageFormat = "bmp"
)

// DecodedImage is a downloaded image that decoded successfully and passed
// the geometry check.
type DecodedImage struct {
	Position int
	Width    int
	Height   int
	Format   ImageFormat

	// Data is the encoded image as downloaded. The Assembler takes ownership
	// and drops it once the page is written.
	Data []byte
}

// PageProgressFunc is called after each page is written.
type PageProgressFunc func(current, total int)

// Assembler lays out images one per page and produces a single document.
type Assembler interface {
	// Assemble writes one page per image, in slice order, and returns the
	// encoded document.
	Assemble(ctx context.Context, images []*DecodedImage, progress PageProgressFunc) ([]byte, error)
}
