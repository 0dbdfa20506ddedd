package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Memory-Duel/internal/input"
)

var keyMap = map[input.Key]ebiten.Key{
	input.KeyEnter: ebiten.KeyEnter,
	input.KeyLeft:  ebiten.KeyArrowLeft,
	input.KeyRight: ebiten.KeyArrowRight,
	input.KeyUp:    ebiten.KeyArrowUp,
	input.KeyDown:  ebiten.KeyArrowDown,
	input.KeyM:     ebiten.KeyM,
	input.KeyQ:     ebiten.KeyQ,
	input.KeyC:     ebiten.KeyC,
}

// ebitenKeys reads the window keyboard.
type ebitenKeys struct{}

func (ebitenKeys) IsKeyPressed(k input.Key) bool {
	ek, ok := keyMap[k]
	return ok && ebiten.IsKeyPressed(ek)
}
