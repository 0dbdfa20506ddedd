// Package effects holds short-lived visual feedback: spark bursts triggered by
// game events and the drifting starfield behind the board.
package effects

import (
	"math"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Garsondee/Memory-Duel/internal/render"
)

// BurstConfig shapes every burst in a pool.
type BurstConfig struct {
	Slots     int           `yaml:"slots"`
	Sparks    int           `yaml:"sparks"`
	Radius    float64       `yaml:"radius"`
	SparkSize float64       `yaml:"spark_size"`
	Lifetime  time.Duration `yaml:"lifetime"`
}

// DefaultBurstConfig returns ten slots of twenty sparks spreading 150px over one second.
func DefaultBurstConfig() BurstConfig {
	return BurstConfig{
		Slots:     10,
		Sparks:    20,
		Radius:    150,
		SparkSize: 50,
		Lifetime:  time.Second,
	}
}

// easeIn is the quartic ease-in curve.
func easeIn(t float64) float64 {
	return t * t * t * t
}

// Progress maps elapsed time to normalised outward progress in [0,1]. The
// ease is applied to the remaining time, so sparks leave fast and settle.
func Progress(elapsed, lifetime time.Duration) float64 {
	if lifetime <= 0 {
		return 1
	}
	t := math.Min(float64(elapsed)/float64(lifetime), 1)
	return 1 - easeIn(1-t)
}

type spark struct {
	dx, dy float64 // unit direction scaled by a random speed in [0,1)
	size   float64
}

// Burst is one explosion of sparks.
type Burst struct {
	x, y    float64
	sparks  []spark
	started time.Time
	alive   bool
}

// Alive reports whether the burst is still animating.
func (b *Burst) Alive() bool { return b.alive }

// Pool is a fixed set of bursts. Nothing is allocated after construction.
type Pool struct {
	cfg    BurstConfig
	bursts []Burst
	clock  clockwork.Clock
	rng    *rand.Rand
}

// NewPool pre-allocates cfg.Slots bursts.
func NewPool(cfg BurstConfig, clock clockwork.Clock, rng *rand.Rand) *Pool {
	p := &Pool{
		cfg:    cfg,
		bursts: make([]Burst, cfg.Slots),
		clock:  clock,
		rng:    rng,
	}
	for i := range p.bursts {
		p.bursts[i].sparks = make([]spark, cfg.Sparks)
	}
	return p
}

// Trigger starts a burst at (x, y) in the first idle slot. It returns false
// and does nothing when every slot is busy.
func (p *Pool) Trigger(x, y float64) bool {
	for i := range p.bursts {
		b := &p.bursts[i]
		if b.alive {
			continue
		}
		b.x, b.y = x, y
		for j := range b.sparks {
			angle := p.rng.Float64() * math.Pi * 2
			speed := p.rng.Float64()
			b.sparks[j] = spark{
				dx:   math.Cos(angle) * speed,
				dy:   math.Sin(angle) * speed,
				size: (p.rng.Float64()*0.5 + 0.5) * p.cfg.SparkSize,
			}
		}
		b.started = p.clock.Now()
		b.alive = true
		return true
	}
	return false
}

// Active returns how many bursts are animating.
func (p *Pool) Active() int {
	n := 0
	for i := range p.bursts {
		if p.bursts[i].alive {
			n++
		}
	}
	return n
}

// Cap returns the number of slots.
func (p *Pool) Cap() int { return len(p.bursts) }

// Advance draws every live burst and retires those that reached the end of
// their lifetime.
func (p *Pool) Advance(dst render.Surface) {
	now := p.clock.Now()
	col := render.WithAlpha(render.Spark, 0.5)
	for i := range p.bursts {
		b := &p.bursts[i]
		if !b.alive {
			continue
		}
		progress := Progress(now.Sub(b.started), p.cfg.Lifetime)
		d := p.cfg.Radius * progress
		shrink := 1 - progress
		for _, s := range b.sparks {
			x := b.x + s.dx*d
			y := b.y + s.dy*d
			size := s.size * shrink
			if size <= 0 {
				continue
			}
			dst.FillRect(x-size/2, y-size/2, size, size, col)
		}
		if progress >= 1 {
			b.alive = false
		}
	}
}
