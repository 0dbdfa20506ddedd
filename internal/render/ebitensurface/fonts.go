package ebitensurface

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Garsondee/Memory-Duel/internal/render"
)

// Fonts caches one text face per render.Face.
type Fonts struct {
	regular *text.GoTextFaceSource
	bold    *text.GoTextFaceSource
	faces   map[render.Face]*text.GoTextFace
}

// LoadFonts parses the embedded Go fonts.
func LoadFonts() (*Fonts, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	return &Fonts{
		regular: regular,
		bold:    bold,
		faces:   make(map[render.Face]*text.GoTextFace),
	}, nil
}

// Face returns the text face for f.
func (f *Fonts) Face(face render.Face) *text.GoTextFace {
	if tf, ok := f.faces[face]; ok {
		return tf
	}
	src := f.regular
	if face.Bold {
		src = f.bold
	}
	tf := &text.GoTextFace{Source: src, Size: face.Size}
	f.faces[face] = tf
	return tf
}
