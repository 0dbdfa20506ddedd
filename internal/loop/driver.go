// Package loop runs the game one frame at a time: it feeds queued events and
// keyboard state to the scene coordinator and draws the decorations around
// it.
package loop

import (
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/Garsondee/Memory-Duel/internal/effects"
	"github.com/Garsondee/Memory-Duel/internal/input"
	"github.com/Garsondee/Memory-Duel/internal/render"
	"github.com/Garsondee/Memory-Duel/internal/scene"
)

// Driver produces frames.
type Driver struct {
	coord  *scene.Coordinator
	inbox  *Inbox
	latch  *input.Latch
	pool   *effects.Pool
	stars  *effects.Starfield
	width  float64
	height float64
	panics int
}

// NewDriver wires a driver. pool and stars may be nil.
func NewDriver(coord *scene.Coordinator, inbox *Inbox, latch *input.Latch, pool *effects.Pool, stars *effects.Starfield, width, height float64) *Driver {
	return &Driver{
		coord:  coord,
		inbox:  inbox,
		latch:  latch,
		pool:   pool,
		stars:  stars,
		width:  width,
		height: height,
	}
}

// Frame clears dst, applies queued events, samples the keyboard, ticks the
// coordinator and draws active bursts on top. A panic is logged and reported
// as ErrFramePanic; the next frame runs normally.
func (d *Driver) Frame(dst render.Surface) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.panics++
			err = fmt.Errorf("%w: %v", ErrFramePanic, r)
			log.Error().
				Str("scene", d.coord.Active().String()).
				Str("stack", string(debug.Stack())).
				Msgf("recovered frame panic: %v", r)
		}
	}()

	dst.Clear(0, 0, d.width, d.height, render.Background)
	if d.inbox != nil {
		d.inbox.Drain(d.coord.Handle)
	}
	d.latch.Poll()
	if d.stars != nil && d.coord.Active().Backdrop() {
		d.stars.Advance(dst)
	}
	d.coord.Tick(dst, d.latch)
	if d.pool != nil {
		d.pool.Advance(dst)
	}
	return nil
}

// Panics returns how many frames have panicked.
func (d *Driver) Panics() int { return d.panics }
