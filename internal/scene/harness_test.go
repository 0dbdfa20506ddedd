package scene

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Garsondee/Memory-Duel/internal/input"
	"github.com/Garsondee/Memory-Duel/internal/render"
)

type harness struct {
	t       *testing.T
	clock   *clockwork.FakeClock
	keys    *input.Script
	latch   *input.Latch
	session *Session
	coord   *Coordinator
	rec     *render.Recorder
	effects []Effect
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		clock: clockwork.NewFakeClock(),
		keys:  input.NewScript(),
		rec:   render.NewRecorder(),
	}
	h.latch = input.NewLatch(h.keys)
	h.session = NewSession(DefaultSettings())
	h.coord = New(h.session, h.clock, ExecutorFunc(func(e Effect) {
		h.effects = append(h.effects, e)
	}), NewJournal(0))
	return h
}

func (h *harness) tick() {
	h.latch.Poll()
	h.rec.Reset()
	h.coord.Tick(h.rec, h.latch)
}

// press holds k for one tick and releases it on the next.
func (h *harness) press(k input.Key) {
	h.keys.Hold(k)
	h.tick()
	h.keys.Release(k)
	h.tick()
}

func (h *harness) send(raw string) {
	h.coord.Handle(Inbound{Raw: []byte(raw)})
}

func (h *harness) reveal(card int, status string, you, opp int, turn bool) {
	h.send(fmt.Sprintf(`{"card":%d,"picture":"face%d.png","status":%q,"your_score":%d,"opponent_score":%d,"your_turn":%v}`,
		card, card, status, you, opp, turn))
}

func (h *harness) count(name string) int {
	n := 0
	for _, e := range h.effects {
		if EffectName(e) == name {
			n++
		}
	}
	return n
}

func (h *harness) expectScene(want Kind) {
	h.t.Helper()
	if got := h.coord.Active(); got != want {
		h.t.Fatalf("scene = %s, want %s\n%s", got, want, h.coord.Journal().Format())
	}
}

// toLobby drives intro and login until the user page is active.
func (h *harness) toLobby() {
	h.t.Helper()
	h.press(input.KeyEnter)
	h.expectScene(Login)
	h.press(input.KeyEnter)
	h.coord.Handle(IdentityReady{ID: "id-1"})
	h.tick()
	h.expectScene(UserPage)
}

// toChoose enters matching, receives start and waits out the delay.
func (h *harness) toChoose(myTurn bool) {
	h.t.Helper()
	h.press(input.KeyM)
	h.expectScene(Matching)
	h.send(fmt.Sprintf(`{"status":"start","picture":"back.png","your_turn":%v}`, myTurn))
	h.clock.Advance(h.session.Settings.MatchingDelay)
	h.tick()
	h.expectScene(Choose)
}

// waitResult lets the result display close.
func (h *harness) waitResult() {
	h.clock.Advance(h.session.Settings.ResultDelay + time.Millisecond)
	h.tick()
}
