package board

import "github.com/Garsondee/Memory-Duel/internal/render"

// cursorGrow is the scale applied to a card while the cursor rests on it.
const cursorGrow = 1.11

// Card is one cell of the board.
type Card struct {
	x, y     float64 // centre
	nominalW float64
	nominalH float64
	w, h     float64 // current size, grows while cursor-selected
	face     string
	revealed bool
	cursor   bool
}

// NewCard creates a face-down card centred on (x, y).
func NewCard(x, y, w, h float64, face string) *Card {
	return &Card{
		x:        x,
		y:        y,
		nominalW: w,
		nominalH: h,
		w:        w,
		h:        h,
		face:     face,
	}
}

// SetCursor marks whether the cursor rests on this card. Clearing the flag
// restores the nominal size immediately.
func (c *Card) SetCursor(on bool) {
	c.cursor = on
	if !on {
		c.w, c.h = c.nominalW, c.nominalH
	}
}

// Cursor reports whether the cursor rests on this card.
func (c *Card) Cursor() bool { return c.cursor }

// SetRevealed sets the open/closed state. Callers outside the protocol
// handler must not set it to true.
func (c *Card) SetRevealed(open bool) { c.revealed = open }

// Revealed reports whether the card is face up.
func (c *Card) Revealed() bool { return c.revealed }

// SetFace replaces the image shown for the card.
func (c *Card) SetFace(ref string) { c.face = ref }

// Face returns the image currently shown for the card.
func (c *Card) Face() string { return c.face }

// Position returns the card centre.
func (c *Card) Position() (float64, float64) { return c.x, c.y }

// Size returns the current drawn size.
func (c *Card) Size() (float64, float64) { return c.w, c.h }

// AdvanceFrame applies the cursor-grow state and draws the card.
func (c *Card) AdvanceFrame(dst render.Surface) {
	if c.cursor {
		c.w, c.h = c.nominalW*cursorGrow, c.nominalH*cursorGrow
	} else {
		c.w, c.h = c.nominalW, c.nominalH
	}
	dst.DrawImage(c.face, c.x-c.w/2, c.y-c.h/2, c.w, c.h)
}
