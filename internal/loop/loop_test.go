package loop

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Garsondee/Memory-Duel/internal/effects"
	"github.com/Garsondee/Memory-Duel/internal/input"
	"github.com/Garsondee/Memory-Duel/internal/render"
	"github.com/Garsondee/Memory-Duel/internal/scene"
)

// fakeTransport records what the executor asks of the match channel.
type fakeTransport struct {
	mu     sync.Mutex
	opened []string
	sent   [][]byte
	closed int
	err    error
}

func (f *fakeTransport) Open(endpoint string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, endpoint)
}

func (f *fakeTransport) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, payload)
	return f.err
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func waitFor(t *testing.T, h *Headless, cond func(*Headless) bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.Step()
		if cond(h) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not reached; scene=%s\n%s", h.Coord.Active(), h.Journal.Format())
}

func TestInbox_DrainInOrder(t *testing.T) {
	in := NewInbox(4)
	in.HandleMessage([]byte("a"))
	in.HandleError(errors.New("b"))
	var got []string
	n := in.Drain(func(ev scene.Event) { got = append(got, scene.EventName(ev)) })
	if n != 2 || got[0] != "inbound" || got[1] != "transport_down" {
		t.Fatalf("drained %d: %v", n, got)
	}
	if in.Drain(func(scene.Event) {}) != 0 {
		t.Fatalf("second drain should be empty")
	}
	in.Close()
	in.Close()
	if in.Push(scene.Inbound{}) {
		t.Fatalf("push after close should fail")
	}
}

func TestDriver_RecoversPanickingFrame(t *testing.T) {
	h := NewHeadless(WithTransport(&fakeTransport{}))
	defer h.Close()

	h.Coord.Register(scene.Intro, scene.Scene{Step: func(*scene.Session, scene.Frame) (scene.Kind, []scene.Effect) {
		panic("bad frame")
	}})
	if err := h.Step(); !errors.Is(err, ErrFramePanic) {
		t.Fatalf("err = %v, want ErrFramePanic", err)
	}
	if err := h.Step(); !errors.Is(err, ErrFramePanic) {
		t.Fatalf("every panicking frame is reported")
	}
	if h.Driver.Panics() != 2 {
		t.Fatalf("panics = %d", h.Driver.Panics())
	}

	h.Coord.Register(scene.Intro, scene.Table()[scene.Intro])
	if err := h.Step(); err != nil {
		t.Fatalf("loop should keep running after a panic: %v", err)
	}
	if !h.Surface.HasText("GameStart") {
		t.Fatalf("intro not drawn after recovery")
	}
}

func TestDriver_ClearsFirstAndDrawsBackdrop(t *testing.T) {
	h := NewHeadless(WithTransport(&fakeTransport{}))
	defer h.Close()

	h.Step()
	ops := h.Surface.Ops()
	if len(ops) == 0 || ops[0].Kind != render.OpClear {
		t.Fatalf("frame must start with a clear")
	}
	if h.Surface.Count(render.OpRect) != 0 {
		t.Fatalf("intro has no starfield")
	}

	h.Coord.Activate(scene.End)
	h.Step()
	if n := h.Surface.Count(render.OpRect); n < 130 {
		t.Fatalf("end scene should draw the starfield, got %d rects", n)
	}
}

func TestServices_Effects(t *testing.T) {
	tr := &fakeTransport{}
	h := NewHeadless(WithTransport(tr))
	defer h.Close()

	var copied string
	h.Services.Clipboard = func(text string) error {
		copied = text
		return nil
	}

	sv := h.Services
	sv.Execute(scene.Connect{Endpoint: "ws://x"})
	sv.Execute(scene.Send{Payload: []byte(`{"card":1}`)})
	sv.Execute(scene.Disconnect{})
	sv.Execute(scene.PlayBGM{})
	sv.Execute(scene.PlayFlip{})
	sv.Execute(scene.CopyCredentials{Text: "a\nb\nc"})
	for i := 0; i < effects.DefaultBurstConfig().Slots+3; i++ {
		sv.Execute(scene.Burst{X: 10, Y: 10})
	}

	if len(tr.opened) != 1 || len(tr.sent) != 1 || tr.closed != 1 {
		t.Fatalf("transport calls open=%d send=%d close=%d", len(tr.opened), len(tr.sent), tr.closed)
	}
	if !h.BGM.Looping() {
		t.Fatalf("bgm should loop")
	}
	if plays, _, _ := h.Flip.Counts(); plays != 1 {
		t.Fatalf("flip played %d times", plays)
	}
	if copied != "a\nb\nc" {
		t.Fatalf("clipboard got %q", copied)
	}
	if h.Pool.Active() != h.Pool.Cap() {
		t.Fatalf("pool should be saturated, active=%d", h.Pool.Active())
	}

	tr.err = errors.New("queue full")
	sv.Execute(scene.Send{Payload: []byte(`{"card":2}`)})
}

func TestHeadless_LoginThroughIssuer(t *testing.T) {
	h := NewHeadless(WithTransport(&fakeTransport{}))
	defer h.Close()

	h.Press(input.KeyEnter)
	h.Press(input.KeyEnter)
	waitFor(t, h, func(h *Headless) bool { return h.Session.Credentials != nil })

	if h.Coord.Active() != scene.UserPage {
		t.Fatalf("scene = %s, want userpage", h.Coord.Active())
	}
	if !h.BGM.Looping() {
		t.Fatalf("lobby music should be playing")
	}
	if h.Session.Credentials.SessionToken == "" {
		t.Fatalf("credentials incomplete")
	}
}

func TestHeadless_MatchAgainstScriptedServer(t *testing.T) {
	tr := &fakeTransport{}
	h := NewHeadless(WithTransport(tr))
	defer h.Close()

	h.Press(input.KeyEnter)
	h.Press(input.KeyEnter)
	waitFor(t, h, func(h *Headless) bool { return h.Coord.Active() == scene.UserPage })
	h.Press(input.KeyM)
	if len(tr.opened) != 1 {
		t.Fatalf("matching should open the channel once, opened=%d", len(tr.opened))
	}

	h.Inbox.HandleMessage([]byte(`{"status":"start","picture":"back.png","your_turn":true}`))
	got := h.RunUntil(func(h *Headless) bool { return h.Coord.Active() == scene.Choose }, 1000)
	if got < 0 {
		t.Fatalf("never left matching")
	}

	h.Press(input.KeyEnter)
	if len(tr.sent) != 1 {
		t.Fatalf("selection not sent")
	}
	h.Inbox.HandleMessage([]byte(`{"card":0,"picture":"a.png","status":"challenging","your_score":0,"opponent_score":0,"your_turn":true}`))
	h.Inbox.HandleMessage([]byte(`{"card":1,"picture":"a.png","status":"Success","your_score":1,"opponent_score":0,"your_turn":true}`))
	h.Step()
	if h.Coord.Active() != scene.Stop {
		t.Fatalf("scene = %s, want stop", h.Coord.Active())
	}
	if h.Pool.Active() != 2 {
		t.Fatalf("two reveals should start two bursts, got %d", h.Pool.Active())
	}
	h.RunUntil(func(h *Headless) bool { return h.Coord.Active() == scene.Choose }, 200)
	snap := h.Snapshot()
	if snap.MyScore != 1 || snap.Opened != 2 || snap.Revealed != 2 {
		t.Fatalf("snapshot %+v", snap)
	}
}
