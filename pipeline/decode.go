package pipeline

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/starchen4/pptstealer"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Decode fully decodes data and returns its pixel size and format.
// Truncated or corrupt images fail here rather than in the assembler.
func Decode(data []byte) (width, height int, format pptstealer.ImageFormat, err error) {
	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), pptstealer.ImageFormat(name), nil
}
