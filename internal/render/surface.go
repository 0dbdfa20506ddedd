// Package render defines the drawing surface the game core draws onto and a
// display-list recorder used to decouple frame logic from the window backend.
package render

import "image/color"

// Face selects the font used by DrawText.
type Face struct {
	Size float64
	Bold bool
}

// Common faces used by the scenes.
var (
	FaceHuge   = Face{Size: 150, Bold: true}
	FaceTitle  = Face{Size: 70, Bold: true}
	FaceBanner = Face{Size: 60, Bold: true}
	FaceLarge  = Face{Size: 50, Bold: true}
	FaceScore  = Face{Size: 40, Bold: true}
	FaceBody   = Face{Size: 30, Bold: true}
	FaceSmall  = Face{Size: 20, Bold: true}
)

// Palette used across scenes.
var (
	Background = color.RGBA{R: 0x11, G: 0x11, B: 0x22, A: 0xff}
	Black      = color.RGBA{A: 0xff}
	White      = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Red        = color.RGBA{R: 0xff, A: 0xff}
	Yellow     = color.RGBA{R: 0xff, G: 0xff, A: 0xff}
	Cyan       = color.RGBA{G: 0xff, B: 0xff, A: 0xff}
	Spark      = color.RGBA{R: 0xff, G: 0x11, B: 0x66, A: 0xff}
	Star       = color.RGBA{R: 0xee, G: 0xee, B: 0xff, A: 0xff}
)

// Surface is the set of drawing primitives the core relies on. Coordinates are
// in canvas pixels; text y is the baseline.
type Surface interface {
	Clear(x, y, w, h float64, c color.Color)
	DrawText(s string, x, y float64, face Face, c color.Color, maxWidth float64)
	DrawImage(ref string, x, y, w, h float64)
	DrawCircle(x, y, r float64, c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
}

// WithAlpha returns c scaled to the given opacity in [0,1].
func WithAlpha(c color.Color, alpha float64) color.Color {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	r, g, b, a := c.RGBA()
	return color.RGBA64{
		R: uint16(float64(r) * alpha),
		G: uint16(float64(g) * alpha),
		B: uint16(float64(b) * alpha),
		A: uint16(float64(a) * alpha),
	}
}
