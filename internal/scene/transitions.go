package scene

import (
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Garsondee/Memory-Duel/internal/board"
	"github.com/Garsondee/Memory-Duel/internal/input"
	"github.com/Garsondee/Memory-Duel/internal/protocol"
)

// Table returns the game's scenes.
func Table() map[Kind]Scene {
	return map[Kind]Scene{
		Intro:    {Step: stepIntro, View: viewIntro},
		Login:    {Step: stepLogin, View: viewLogin},
		UserPage: {Step: stepUserPage, View: viewUserPage},
		Matching: {Step: stepMatching, View: viewMatching, Inbound: inboundMatching},
		Choose:   {Step: stepChoose, View: viewChoose, Inbound: inboundPlay},
		Wait:     {Step: stepWait, View: viewWait, Inbound: inboundPlay},
		Stop:     {Step: stepStop, View: viewStop, Inbound: inboundPlay},
		End:      {Step: stepEnd, View: viewEnd},
	}
}

// New creates a coordinator with every scene registered and the intro
// active.
func New(s *Session, clock clockwork.Clock, exec Executor, journal *Journal) *Coordinator {
	c := NewCoordinator(s, clock, exec, journal)
	for k, sc := range Table() {
		c.Register(k, sc)
	}
	c.Activate(Intro)
	return c
}

func stepIntro(s *Session, f Frame) (Kind, []Effect) {
	if f.Keys.Fire(input.KeyEnter) {
		return Login, nil
	}
	return Stay, nil
}

func stepLogin(s *Session, f Frame) (Kind, []Effect) {
	var fx []Effect
	if !s.IdentityRequested && f.Keys.Fire(input.KeyEnter) {
		s.IdentityRequested = true
		fx = append(fx, RequestIdentity{})
	}
	if s.IdentityID != "" {
		fx = append(fx, RequestCredentials{ID: s.IdentityID}, PlayBGM{})
		return UserPage, fx
	}
	return Stay, fx
}

func stepUserPage(s *Session, f Frame) (Kind, []Effect) {
	if f.Keys.Fire(input.KeyM) {
		return Matching, nil
	}
	if s.Credentials != nil && f.Keys.Fire(input.KeyC) {
		return Stay, []Effect{CopyCredentials{Text: s.Credentials.Triple()}}
	}
	return Stay, nil
}

func stepMatching(s *Session, f Frame) (Kind, []Effect) {
	var fx []Effect
	if s.MatchArmed {
		s.MatchArmed = false
		fx = append(fx, Connect{Endpoint: s.Settings.Endpoint})
	}
	next := Stay
	if f.Elapsed >= s.Settings.MatchingDelay && s.Board != nil {
		fx = append(fx, StopBGM{})
		next = Choose
	}
	if s.TransportErr != nil && f.Keys.Fire(input.KeyQ) {
		fx = append(fx, leaveMatch(s)...)
		next = UserPage
	}
	return next, fx
}

var arrows = []struct {
	key input.Key
	dir board.Direction
}{
	{input.KeyLeft, board.Left},
	{input.KeyRight, board.Right},
	{input.KeyUp, board.Up},
	{input.KeyDown, board.Down},
}

func stepChoose(s *Session, f Frame) (Kind, []Effect) {
	if s.Board == nil {
		return Stay, nil
	}
	if s.TransportErr != nil && f.Keys.Fire(input.KeyQ) {
		return UserPage, leaveMatch(s)
	}
	if !s.MyTurn {
		return Wait, nil
	}

	for _, a := range arrows {
		if f.Keys.Fire(a.key) {
			s.Cursor = s.Board.Move(s.Cursor, a.dir)
		}
	}
	s.Board.SetCursor(s.Cursor)

	var fx []Effect
	if f.Keys.Fire(input.KeyEnter) {
		if card := s.Board.Card(s.Cursor); card != nil && !card.Revealed() {
			payload, err := protocol.EncodeSelection(s.Cursor)
			if err != nil {
				log.Error().Err(err).Int("card", s.Cursor).Msg("encode selection")
			} else {
				fx = append(fx, Send{Payload: payload})
			}
		}
	}

	next := Stay
	if s.Finished() {
		next = End
	}
	return next, fx
}

func stepWait(s *Session, f Frame) (Kind, []Effect) {
	if s.TransportErr != nil && f.Keys.Fire(input.KeyQ) {
		return UserPage, leaveMatch(s)
	}
	next := Stay
	if s.MyTurn {
		next = Choose
	}
	if s.Finished() {
		next = End
	}
	return next, nil
}

func stepStop(s *Session, f Frame) (Kind, []Effect) {
	if s.TransportErr != nil && f.Keys.Fire(input.KeyQ) {
		return UserPage, leaveMatch(s)
	}
	if f.Elapsed >= s.Settings.ResultDelay {
		resolvePending(s)
		return Choose, nil
	}
	return Stay, nil
}

func stepEnd(s *Session, f Frame) (Kind, []Effect) {
	if f.Keys.Fire(input.KeyQ) {
		return UserPage, leaveMatch(s)
	}
	return Stay, nil
}

// leaveMatch tears the match down on the way back to the lobby and re-arms
// the matching scene.
func leaveMatch(s *Session) []Effect {
	s.resetMatch()
	s.MatchArmed = true
	return []Effect{Disconnect{}, PlayBGM{}}
}

func inboundMatching(s *Session, m protocol.Message) (Kind, []Effect) {
	switch msg := m.(type) {
	case *protocol.Start:
		s.resetMatch()
		s.BackImage = msg.Picture
		s.Board = board.New(s.Settings.Layout, msg.Picture)
		s.MyTurn = msg.YourTurn
		s.Board.SetCursor(s.Cursor)
		return Stay, nil
	case *protocol.Reveal:
		next, fx := inboundPlay(s, m)
		if next != Stay {
			fx = append(fx, StopBGM{})
		}
		return next, fx
	}
	return Stay, nil
}

// inboundPlay applies a reveal. The first pick of a round is cached; the
// second resolves it and opens the result display.
func inboundPlay(s *Session, m protocol.Message) (Kind, []Effect) {
	msg, ok := m.(*protocol.Reveal)
	if !ok || s.Board == nil {
		return Stay, nil
	}
	card := s.Board.Card(msg.Card)
	if card == nil {
		log.Warn().Int("card", msg.Card).Int("cards", s.Board.Len()).Msg("reveal names a card off the board")
		return Stay, nil
	}

	// A round still on display is settled before the new reveal is applied,
	// so a re-picked card from that round is not hidden again.
	if msg.Status.Terminal() && s.Pending != nil {
		resolvePending(s)
	}

	card.SetFace(msg.Picture)
	card.SetRevealed(true)
	x, y := card.Position()
	fx := []Effect{Burst{X: x, Y: y}, PlayFlip{}}

	s.MyScore = msg.YourScore
	s.OpponentScore = msg.OpponentScore
	s.MyTurn = msg.YourTurn

	if msg.Status == protocol.StatusChallenging {
		s.Challenge = msg.Card
		return Stay, fx
	}

	s.Pending = &Round{Status: msg.Status, Card: msg.Card, Challenge: s.Challenge}
	s.Outcome = msg.Status
	s.Challenge = -1
	return Stop, fx
}

// resolvePending applies the outcome of the displayed round. Failed cards go
// back to the card back, except the first pick of a round already in flight.
func resolvePending(s *Session) {
	r := s.Pending
	if r == nil {
		return
	}
	s.Pending = nil
	switch r.Status {
	case protocol.StatusSuccess:
		s.Opened += 2
	case protocol.StatusFailed:
		if s.Board == nil {
			return
		}
		for _, i := range []int{r.Card, r.Challenge} {
			if i == s.Challenge {
				continue
			}
			if c := s.Board.Card(i); c != nil {
				c.SetFace(s.BackImage)
				c.SetRevealed(false)
			}
		}
	}
}
