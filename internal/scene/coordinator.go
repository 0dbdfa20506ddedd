package scene

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Garsondee/Memory-Duel/internal/input"
	"github.com/Garsondee/Memory-Duel/internal/protocol"
	"github.com/Garsondee/Memory-Duel/internal/render"
)

// Keys is the press-once keyboard view a step sees.
type Keys interface {
	Fire(k input.Key) bool
	IsDown(k input.Key) bool
}

// Frame is what a step knows about the current tick.
type Frame struct {
	Tick    int
	Now     time.Time
	Elapsed time.Duration // time since the scene was activated
	Keys    Keys
}

type (
	// StepFunc advances a scene by one tick and returns the next kind, or
	// Stay, plus the side effects to perform.
	StepFunc func(s *Session, f Frame) (Kind, []Effect)
	// ViewFunc draws a scene. It must not change the Session.
	ViewFunc func(s *Session, f Frame, dst render.Surface)
	// InboundFunc applies a validated message to the Session.
	InboundFunc func(s *Session, m protocol.Message) (Kind, []Effect)
)

// Scene is one entry of the coordinator's table.
type Scene struct {
	Step    StepFunc
	View    ViewFunc
	Inbound InboundFunc
}

// Coordinator owns the Session and runs exactly one scene at a time.
type Coordinator struct {
	clock   clockwork.Clock
	session *Session
	scenes  [kindCount]*Scene
	exec    Executor
	journal *Journal
	tick    int
}

// NewCoordinator creates a coordinator over s. exec and journal may be nil.
func NewCoordinator(s *Session, clock clockwork.Clock, exec Executor, journal *Journal) *Coordinator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if exec == nil {
		exec = ExecutorFunc(func(Effect) {})
	}
	return &Coordinator{
		clock:   clock,
		session: s,
		exec:    exec,
		journal: journal,
	}
}

// Register installs the behaviour of kind k.
func (c *Coordinator) Register(k Kind, sc Scene) {
	if !k.Valid() {
		panic(fmt.Sprintf("scene: register of invalid kind %d", k))
	}
	c.scenes[k] = &sc
}

// Activate makes k the current scene and restarts its clock. The scene's
// step first runs on the next Tick.
func (c *Coordinator) Activate(k Kind) {
	if !k.Valid() {
		log.Warn().Int("kind", int(k)).Msg("ignoring activation of invalid scene")
		return
	}
	prev := c.session.Scene
	c.session.Scene = k
	c.session.EnteredAt = c.clock.Now()
	c.journal.Add(c.tick, k, "scene", "activate", prev.String()+" -> "+k.String())
	log.Debug().Str("from", prev.String()).Str("to", k.String()).Msg("scene change")
}

// Active returns the current scene kind.
func (c *Coordinator) Active() Kind { return c.session.Scene }

// Session returns the state the coordinator owns.
func (c *Coordinator) Session() *Session { return c.session }

// Journal returns the event journal, which may be nil.
func (c *Coordinator) Journal() *Journal { return c.journal }

// Ticks returns how many frames have run.
func (c *Coordinator) Ticks() int { return c.tick }

// Tick runs the active scene's step, performs its effects, draws its view
// and then honours at most one transition.
func (c *Coordinator) Tick(dst render.Surface, keys Keys) {
	c.tick++
	s := c.session
	kind := s.Scene
	sc := c.scenes[kind]
	if sc == nil {
		return
	}

	now := c.clock.Now()
	f := Frame{
		Tick:    c.tick,
		Now:     now,
		Elapsed: now.Sub(s.EnteredAt),
		Keys:    keys,
	}

	if s.Alert != "" {
		if keys != nil && keys.Fire(input.KeyEnter) {
			c.journal.Add(c.tick, kind, "alert", "dismiss", s.Alert)
			s.Alert = ""
		}
		if sc.View != nil {
			sc.View(s, f, dst)
		}
		drawAlert(s, dst)
		return
	}

	next := Stay
	var effects []Effect
	if sc.Step != nil {
		next, effects = sc.Step(s, f)
	}
	c.perform(kind, effects)
	if sc.View != nil {
		sc.View(s, f, dst)
	}
	if next != Stay {
		c.Activate(next)
	}
}

// Handle applies an asynchronous event. It must be called from the frame
// goroutine, between ticks.
func (c *Coordinator) Handle(ev Event) {
	s := c.session
	switch e := ev.(type) {
	case Inbound:
		c.handleInbound(e.Raw)
	case IdentityReady:
		s.IdentityID = e.ID
		c.journal.Add(c.tick, s.Scene, "identity", "id", e.ID)
	case IdentityFailed:
		s.IdentityRequested = false
		c.journal.Add(c.tick, s.Scene, "identity", "id_failed", errString(e.Err))
		log.Warn().Err(e.Err).Msg("identity request failed")
	case CredentialsReady:
		creds := e.Credentials
		s.Credentials = &creds
		c.journal.Add(c.tick, s.Scene, "identity", "credentials", creds.AccessKeyID)
	case CredentialsFailed:
		c.journal.Add(c.tick, s.Scene, "identity", "credentials_failed", errString(e.Err))
		log.Warn().Err(e.Err).Msg("credentials request failed")
	case TransportDown:
		if !s.Scene.InMatch() {
			c.journal.Add(c.tick, s.Scene, "transport", "down_ignored", errString(e.Err))
			return
		}
		s.TransportErr = e.Err
		c.journal.Add(c.tick, s.Scene, "transport", "down", errString(e.Err))
	case AssetFailed:
		s.Alert = "failed to load " + e.Ref
		c.journal.Add(c.tick, s.Scene, "alert", "asset", e.Ref)
	default:
		log.Warn().Str("event", fmt.Sprintf("%T", ev)).Msg("unknown event")
	}
}

func (c *Coordinator) handleInbound(raw []byte) {
	s := c.session
	kind := s.Scene
	p := phase(kind, s.Board != nil)
	msg, err := protocol.Decode(p, raw)
	if err != nil {
		c.journal.Add(c.tick, kind, "inbound", "ignored", err.Error())
		log.Warn().Err(err).Str("scene", kind.String()).Str("phase", p.String()).Msg("ignoring inbound message")
		return
	}
	sc := c.scenes[kind]
	if sc == nil || sc.Inbound == nil {
		c.journal.Add(c.tick, kind, "inbound", "ignored", "no handler")
		return
	}

	s.Last = msg
	c.journal.Add(c.tick, kind, "inbound", messageKey(msg), describe(msg))
	next, effects := sc.Inbound(s, msg)
	c.perform(kind, effects)
	if next != Stay {
		c.Activate(next)
	}
}

func (c *Coordinator) perform(kind Kind, effects []Effect) {
	for _, e := range effects {
		c.journal.Add(c.tick, kind, "effect", e.effectName(), "")
		c.exec.Execute(e)
	}
}

func messageKey(m protocol.Message) string {
	switch msg := m.(type) {
	case *protocol.Start:
		return string(msg.Status)
	case *protocol.Reveal:
		return string(msg.Status)
	}
	return "unknown"
}

func describe(m protocol.Message) string {
	switch msg := m.(type) {
	case *protocol.Start:
		return fmt.Sprintf("back=%s turn=%v", msg.Picture, msg.YourTurn)
	case *protocol.Reveal:
		return fmt.Sprintf("card=%d you=%d opp=%d turn=%v",
			msg.Card, msg.YourScore, msg.OpponentScore, msg.YourTurn)
	}
	return ""
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
