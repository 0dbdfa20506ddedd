package effects

import (
	"math/rand"

	"github.com/Garsondee/Memory-Duel/internal/render"
)

const (
	starCount    = 130
	starMaxSize  = 3
	starMaxSpeed = 5
)

type star struct {
	x, y   float64
	vx, vy float64
	size   float64
}

// Starfield is the decoration drifting behind the board: stars leave the
// canvas centre in random directions and respawn there when they exit.
type Starfield struct {
	w, h  float64
	stars []star
	rng   *rand.Rand
}

// NewStarfield seeds starCount stars at the centre of a w×h canvas.
func NewStarfield(w, h float64, rng *rand.Rand) *Starfield {
	sf := &Starfield{w: w, h: h, stars: make([]star, starCount), rng: rng}
	for i := range sf.stars {
		sf.spawn(&sf.stars[i])
	}
	return sf
}

func (sf *Starfield) spawn(s *star) {
	s.x, s.y = sf.w/2, sf.h/2-10
	s.size = 1 + sf.rng.Float64()*(starMaxSize-1)
	s.vx = float64(sf.rng.Intn(2*starMaxSpeed) - starMaxSpeed)
	s.vy = float64(sf.rng.Intn(2*starMaxSpeed) - starMaxSpeed)
	if s.vx == 0 && s.vy == 0 {
		s.vx = 2
	}
}

// Advance moves and draws every star.
func (sf *Starfield) Advance(dst render.Surface) {
	for i := range sf.stars {
		s := &sf.stars[i]
		s.x += s.vx
		s.y += s.vy
		if s.x < -s.size || s.x > sf.w+s.size || s.y < -s.size || s.y > sf.h+s.size {
			sf.spawn(s)
		}
		dst.FillRect(s.x-s.size/2, s.y-s.size/2, s.size, s.size, render.Star)
	}
}
