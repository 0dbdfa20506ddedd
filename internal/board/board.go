// Package board models the grid of cards shown during a match.
package board

import "github.com/Garsondee/Memory-Duel/internal/render"

// Direction is a cursor move on the grid.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Layout describes the grid geometry in canvas pixels.
type Layout struct {
	Rows       int     `yaml:"rows"`
	Cols       int     `yaml:"cols"`
	CardWidth  float64 `yaml:"card_width"`
	CardHeight float64 `yaml:"card_height"`
	Gap        float64 `yaml:"gap"`
	OffsetX    float64 `yaml:"offset_x"`
	OffsetY    float64 `yaml:"offset_y"`
}

// DefaultLayout is the 4x4 board on a 1000x800 canvas.
func DefaultLayout() Layout {
	return Layout{
		Rows:       4,
		Cols:       4,
		CardWidth:  150,
		CardHeight: 150,
		Gap:        30,
		OffsetX:    140,
		OffsetY:    20,
	}
}

// Count returns the number of cards on the board.
func (l Layout) Count() int {
	return l.Rows * l.Cols
}

// Center returns the canvas position of the centre of card i.
func (l Layout) Center(i int) (float64, float64) {
	row, col := i/l.Cols, i%l.Cols
	x := float64(col)*(l.Gap+l.CardWidth) + (l.Gap/2 + l.CardWidth/2) + l.OffsetX
	y := float64(row)*(l.Gap+l.CardHeight) + (l.Gap/2 + l.CardHeight/2) + l.OffsetY
	return x, y
}

// Board holds every card of the current match.
type Board struct {
	layout Layout
	cards  []*Card
}

// New builds a face-down board where every card shows the back image.
func New(layout Layout, back string) *Board {
	b := &Board{
		layout: layout,
		cards:  make([]*Card, layout.Count()),
	}
	for i := range b.cards {
		x, y := layout.Center(i)
		b.cards[i] = NewCard(x, y, layout.CardWidth, layout.CardHeight, back)
	}
	return b
}

// Len returns the number of cards.
func (b *Board) Len() int { return len(b.cards) }

// Valid reports whether i names a card on the board.
func (b *Board) Valid(i int) bool { return i >= 0 && i < len(b.cards) }

// Card returns card i, or nil when i is out of range.
func (b *Board) Card(i int) *Card {
	if !b.Valid(i) {
		return nil
	}
	return b.cards[i]
}

// Move returns the cursor index after moving from `from` in direction d.
// Left/right step by one index, up/down by one row. A move that would leave
// the board is rejected and `from` is returned unchanged; edges never wrap.
func (b *Board) Move(from int, d Direction) int {
	to := from
	switch d {
	case Left:
		to--
	case Right:
		to++
	case Up:
		to -= b.layout.Cols
	case Down:
		to += b.layout.Cols
	}
	if !b.Valid(to) {
		return from
	}
	return to
}

// SetCursor moves the cursor highlight to card i.
func (b *Board) SetCursor(i int) {
	for j, c := range b.cards {
		c.SetCursor(j == i)
	}
}

// RevealedCount returns how many cards are face up.
func (b *Board) RevealedCount() int {
	n := 0
	for _, c := range b.cards {
		if c.Revealed() {
			n++
		}
	}
	return n
}

// AdvanceFrame draws every card.
func (b *Board) AdvanceFrame(dst render.Surface) {
	for _, c := range b.cards {
		c.AdvanceFrame(dst)
	}
}
