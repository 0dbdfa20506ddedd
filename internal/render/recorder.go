package render

import (
	"image/color"
	"strings"
)

// OpKind identifies a recorded drawing call.
type OpKind int

const (
	OpClear OpKind = iota
	OpText
	OpImage
	OpCircle
	OpRect
)

// Op is one recorded drawing call.
type Op struct {
	Kind     OpKind
	Text     string
	Ref      string
	X, Y     float64
	W, H     float64
	Face     Face
	Color    color.Color
	MaxWidth float64
}

// Recorder is a Surface that stores drawing calls as a display list. Frames
// are produced into a Recorder during Update and replayed onto the window in
// Draw; headless runs and tests inspect the list directly.
type Recorder struct {
	ops []Op
}

// NewRecorder creates an empty display list.
func NewRecorder() *Recorder {
	return &Recorder{ops: make([]Op, 0, 128)}
}

// Reset drops all recorded calls, keeping capacity.
func (r *Recorder) Reset() {
	r.ops = r.ops[:0]
}

func (r *Recorder) Clear(x, y, w, h float64, c color.Color) {
	r.ops = append(r.ops, Op{Kind: OpClear, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) DrawText(s string, x, y float64, face Face, c color.Color, maxWidth float64) {
	r.ops = append(r.ops, Op{Kind: OpText, Text: s, X: x, Y: y, Face: face, Color: c, MaxWidth: maxWidth})
}

func (r *Recorder) DrawImage(ref string, x, y, w, h float64) {
	r.ops = append(r.ops, Op{Kind: OpImage, Ref: ref, X: x, Y: y, W: w, H: h})
}

func (r *Recorder) DrawCircle(x, y, radius float64, c color.Color) {
	r.ops = append(r.ops, Op{Kind: OpCircle, X: x, Y: y, W: radius, H: radius, Color: c})
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.ops = append(r.ops, Op{Kind: OpRect, X: x, Y: y, W: w, H: h, Color: c})
}

// Ops returns the recorded calls in order.
func (r *Recorder) Ops() []Op {
	return r.ops
}

// Count returns how many calls of the given kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Texts returns every string drawn with DrawText.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// HasText reports whether any drawn string contains substr.
func (r *Recorder) HasText(substr string) bool {
	for _, op := range r.ops {
		if op.Kind == OpText && strings.Contains(op.Text, substr) {
			return true
		}
	}
	return false
}

// Replay issues every recorded call against dst.
func (r *Recorder) Replay(dst Surface) {
	for _, op := range r.ops {
		switch op.Kind {
		case OpClear:
			dst.Clear(op.X, op.Y, op.W, op.H, op.Color)
		case OpText:
			dst.DrawText(op.Text, op.X, op.Y, op.Face, op.Color, op.MaxWidth)
		case OpImage:
			dst.DrawImage(op.Ref, op.X, op.Y, op.W, op.H)
		case OpCircle:
			dst.DrawCircle(op.X, op.Y, op.W, op.Color)
		case OpRect:
			dst.FillRect(op.X, op.Y, op.W, op.H, op.Color)
		}
	}
}
