package loop

import (
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Garsondee/Memory-Duel/internal/effects"
	"github.com/Garsondee/Memory-Duel/internal/identity"
	"github.com/Garsondee/Memory-Duel/internal/input"
	"github.com/Garsondee/Memory-Duel/internal/protocol"
	"github.com/Garsondee/Memory-Duel/internal/render"
	"github.com/Garsondee/Memory-Duel/internal/scene"
	"github.com/Garsondee/Memory-Duel/internal/sound"
)

// Headless is a complete client without a window: scripted keys, a fake
// clock, silent audio and a display-list surface. Tests and the headless
// match runner drive it one Step at a time.
type Headless struct {
	Clock    *clockwork.FakeClock
	Keys     *input.Script
	Latch    *input.Latch
	Session  *scene.Session
	Coord    *scene.Coordinator
	Journal  *scene.Journal
	Inbox    *Inbox
	Pool     *effects.Pool
	Surface  *render.Recorder
	BGM      *sound.Silent
	Flip     *sound.Silent
	Services *Services
	Driver   *Driver

	// FrameTime is how far the clock moves per Step.
	FrameTime time.Duration

	rng        *rand.Rand
	settings   scene.Settings
	transport  Transport
	provider   identity.Provider
	journalCap int
	tick       int
}

// HeadlessOption configures a Headless during construction.
type HeadlessOption func(*Headless)

// WithSeed sets the RNG seed used by the effects.
func WithSeed(seed int64) HeadlessOption {
	return func(h *Headless) {
		h.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- visual effects only
	}
}

// WithSettings replaces the session settings.
func WithSettings(s scene.Settings) HeadlessOption {
	return func(h *Headless) { h.settings = s }
}

// WithTransport replaces the WebSocket client.
func WithTransport(t Transport) HeadlessOption {
	return func(h *Headless) { h.transport = t }
}

// WithIdentity replaces the in-process identity issuer.
func WithIdentity(p identity.Provider) HeadlessOption {
	return func(h *Headless) { h.provider = p }
}

// WithJournalCapacity bounds the journal; 0 keeps everything.
func WithJournalCapacity(n int) HeadlessOption {
	return func(h *Headless) { h.journalCap = n }
}

// WithFrameTime sets the clock advance per Step.
func WithFrameTime(d time.Duration) HeadlessOption {
	return func(h *Headless) { h.FrameTime = d }
}

// NewHeadless builds a client from the given options.
func NewHeadless(opts ...HeadlessOption) *Headless {
	h := &Headless{
		Clock:     clockwork.NewFakeClock(),
		Keys:      input.NewScript(),
		Surface:   render.NewRecorder(),
		BGM:       &sound.Silent{},
		Flip:      &sound.Silent{},
		FrameTime: time.Second / 60,
		rng:       rand.New(rand.NewSource(1)), // #nosec G404 -- visual effects only
		settings:  scene.DefaultSettings(),
	}
	for _, o := range opts {
		o(h)
	}

	h.Latch = input.NewLatch(h.Keys)
	h.Inbox = NewInbox(256)
	h.Journal = scene.NewJournal(h.journalCap)
	h.Pool = effects.NewPool(effects.DefaultBurstConfig(), h.Clock, h.rng)
	if h.transport == nil {
		h.transport = protocol.NewClient(protocol.DefaultClientConfig(), h.Inbox)
	}
	if h.provider == nil {
		iss, err := identity.NewIssuer("headless", "memory-duel", time.Hour, h.Clock)
		if err != nil {
			log.Fatal().Err(err).Msg("headless issuer")
		}
		h.provider = iss
	}

	h.Services = &Services{
		Transport: h.transport,
		BGM:       h.BGM,
		Flip:      h.Flip,
		Identity:  h.provider,
		Pool:      h.Pool,
		Inbox:     h.Inbox,
	}
	h.Session = scene.NewSession(h.settings)
	h.Coord = scene.New(h.Session, h.Clock, h.Services, h.Journal)
	stars := effects.NewStarfield(h.settings.CanvasWidth, h.settings.CanvasHeight, h.rng)
	h.Driver = NewDriver(h.Coord, h.Inbox, h.Latch, h.Pool, stars, h.settings.CanvasWidth, h.settings.CanvasHeight)
	return h
}

// Step advances the clock by one frame and runs it.
func (h *Headless) Step() error {
	h.tick++
	h.Clock.Advance(h.FrameTime)
	h.Surface.Reset()
	return h.Driver.Frame(h.Surface)
}

// RunTicks runs n frames.
func (h *Headless) RunTicks(n int) {
	for i := 0; i < n; i++ {
		h.Step()
	}
}

// RunUntil runs frames until predicate holds or maxTicks have run. It
// returns the tick at which the predicate held, or -1.
func (h *Headless) RunUntil(predicate func(*Headless) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		h.Step()
		if predicate(h) {
			return h.tick
		}
	}
	return -1
}

// Press holds k for one frame and releases it on the next.
func (h *Headless) Press(k input.Key) {
	h.Keys.Hold(k)
	h.Step()
	h.Keys.Release(k)
	h.Step()
}

// CurrentTick returns the number of frames run.
func (h *Headless) CurrentTick() int { return h.tick }

// Close tears down the match channel and the inbox.
func (h *Headless) Close() {
	if h.transport != nil {
		h.transport.Close()
	}
	h.Inbox.Close()
}

// Snapshot is a summary of the client state at one tick.
type Snapshot struct {
	Tick          int
	Scene         scene.Kind
	MyScore       int
	OpponentScore int
	MyTurn        bool
	Opened        int
	Revealed      int
}

// Snapshot returns the current state.
func (h *Headless) Snapshot() Snapshot {
	s := h.Session
	snap := Snapshot{
		Tick:          h.tick,
		Scene:         s.Scene,
		MyScore:       s.MyScore,
		OpponentScore: s.OpponentScore,
		MyTurn:        s.MyTurn,
		Opened:        s.Opened,
	}
	if s.Board != nil {
		snap.Revealed = s.Board.RevealedCount()
	}
	return snap
}
