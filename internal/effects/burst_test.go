package effects

import (
	"math/rand"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Garsondee/Memory-Duel/internal/render"
)

func newTestPool(t *testing.T) (*Pool, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	rng := rand.New(rand.NewSource(7)) // #nosec G404 -- test only
	return NewPool(DefaultBurstConfig(), clock, rng), clock
}

func TestPool_TriggerUsesIdleSlots(t *testing.T) {
	p, _ := newTestPool(t)
	for i := 0; i < p.Cap(); i++ {
		if !p.Trigger(100, 100) {
			t.Fatalf("trigger %d failed with idle slots left", i)
		}
	}
	if p.Active() != p.Cap() {
		t.Fatalf("expected %d active bursts, got %d", p.Cap(), p.Active())
	}
}

func TestPool_TriggerWhenFullIsNoop(t *testing.T) {
	p, _ := newTestPool(t)
	for i := 0; i < p.Cap(); i++ {
		p.Trigger(float64(i), 0)
	}
	if p.Trigger(500, 500) {
		t.Fatalf("trigger on a full pool must report false")
	}
	if p.Active() != p.Cap() {
		t.Fatalf("pool size changed on exhausted trigger: %d", p.Active())
	}
}

func TestPool_BurstRetiresAfterLifetime(t *testing.T) {
	p, clock := newTestPool(t)
	rec := render.NewRecorder()
	p.Trigger(200, 200)

	clock.Advance(500 * time.Millisecond)
	p.Advance(rec)
	if p.Active() != 1 {
		t.Fatalf("burst retired before its lifetime")
	}
	if rec.Count(render.OpRect) == 0 {
		t.Fatalf("live burst drew no sparks")
	}

	clock.Advance(600 * time.Millisecond)
	p.Advance(rec)
	if p.Active() != 0 {
		t.Fatalf("burst still alive after lifetime")
	}

	if !p.Trigger(10, 10) {
		t.Fatalf("retired slot must be reusable")
	}
}

func TestPool_SparksStayWithinRadius(t *testing.T) {
	p, clock := newTestPool(t)
	p.Trigger(300, 300)
	clock.Advance(900 * time.Millisecond)
	rec := render.NewRecorder()
	p.Advance(rec)
	for _, op := range rec.Ops() {
		cx := op.X + op.W/2
		cy := op.Y + op.H/2
		dx, dy := cx-300, cy-300
		if dx*dx+dy*dy > 150*150+1e-6 {
			t.Fatalf("spark at (%v,%v) beyond burst radius", cx, cy)
		}
	}
}

func TestProgress_Curve(t *testing.T) {
	if got := Progress(0, time.Second); got != 0 {
		t.Fatalf("progress at start = %v, want 0", got)
	}
	if got := Progress(time.Second, time.Second); got != 1 {
		t.Fatalf("progress at end = %v, want 1", got)
	}
	if got := Progress(2*time.Second, time.Second); got != 1 {
		t.Fatalf("progress past end = %v, want 1", got)
	}
	half := Progress(500*time.Millisecond, time.Second)
	if half != 1-0.0625 {
		t.Fatalf("progress at half = %v, want %v", half, 1-0.0625)
	}
}

func TestStarfield_DrawsEveryStar(t *testing.T) {
	sf := NewStarfield(1000, 800, rand.New(rand.NewSource(1))) // #nosec G404 -- test only
	rec := render.NewRecorder()
	for i := 0; i < 300; i++ {
		rec.Reset()
		sf.Advance(rec)
	}
	if got := rec.Count(render.OpRect); got != starCount {
		t.Fatalf("expected %d stars drawn, got %d", starCount, got)
	}
	for _, op := range rec.Ops() {
		if op.X < -10 || op.X > 1010 || op.Y < -10 || op.Y > 810 {
			t.Fatalf("star drawn off canvas at (%v,%v)", op.X, op.Y)
		}
	}
}
