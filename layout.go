package pptstealer

// Size is a width and height in PDF points (1/72 inch).
type Size struct {
	Width  float64
	Height float64
}

// A4Landscape is an A4 sheet (297mm × 210mm) turned sideways.
var A4Landscape = Size{Width: 841.89, Height: 595.28}

// Placement is where an image lands on a page.
type Placement struct {
	// X and Y are the lower-left corner, measured from the page's lower-left.
	X, Y float64

	Width, Height float64

	// Scale is the factor applied to the native pixel size, one pixel
	// mapping to one point. It never exceeds 1.
	Scale float64
}

// FitImage scales an image of the given pixel size to fit inside a page with
// a symmetric margin, preserving aspect ratio, and centers it. Images that
// already fit are placed at their native size rather than enlarged.
func FitImage(width, height int, page Size, margin float64) Placement {
	if width <= 0 || height <= 0 {
		return Placement{}
	}
	areaW := max(page.Width-2*margin, 0)
	areaH := max(page.Height-2*margin, 0)

	w, h := float64(width), float64(height)
	scale := min(areaW/w, areaH/h, 1.0)

	drawW, drawH := w*scale, h*scale
	return Placement{
		X:      (page.Width - drawW) / 2,
		Y:      (page.Height - drawH) / 2,
		Width:  drawW,
		Height: drawH,
		Scale:  scale,
	}
}
