// Package ebitensurface draws render.Surface calls onto an ebiten image.
package ebitensurface

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Memory-Duel/internal/render"
)

// placeholder is drawn where a card image has not loaded yet.
var placeholder = color.RGBA{R: 0x33, G: 0x33, B: 0x55, A: 0xff}

// Surface implements render.Surface for one target image. Bind it to the
// screen at the start of each Draw.
type Surface struct {
	dst    *ebiten.Image
	fonts  *Fonts
	images *Images
}

// New creates a surface using the given fonts and image cache.
func New(fonts *Fonts, images *Images) *Surface {
	return &Surface{fonts: fonts, images: images}
}

// Bind sets the image drawn to.
func (s *Surface) Bind(dst *ebiten.Image) {
	s.dst = dst
}

func (s *Surface) Clear(x, y, w, h float64, c color.Color) {
	vector.DrawFilledRect(s.dst, float32(x), float32(y), float32(w), float32(h), c, false)
}

// DrawText draws s with its baseline at y. A positive maxWidth squeezes the
// text horizontally to fit, as canvas fillText does.
func (s *Surface) DrawText(str string, x, y float64, face render.Face, c color.Color, maxWidth float64) {
	tf := s.fonts.Face(face)
	w, _ := text.Measure(str, tf, 0)

	op := &text.DrawOptions{}
	if maxWidth > 0 && w > maxWidth {
		op.GeoM.Scale(maxWidth/w, 1)
	}
	op.GeoM.Translate(x, y-tf.Metrics().HAscent)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(s.dst, str, tf, op)
}

func (s *Surface) DrawImage(ref string, x, y, w, h float64) {
	img := s.images.Get(ref)
	if img == nil {
		vector.DrawFilledRect(s.dst, float32(x), float32(y), float32(w), float32(h), placeholder, false)
		return
	}
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	s.dst.DrawImage(img, op)
}

func (s *Surface) DrawCircle(x, y, r float64, c color.Color) {
	vector.DrawFilledCircle(s.dst, float32(x), float32(y), float32(r), c, true)
}

func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	vector.DrawFilledRect(s.dst, float32(x), float32(y), float32(w), float32(h), c, false)
}

var _ render.Surface = (*Surface)(nil)
