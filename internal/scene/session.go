package scene

import (
	"time"

	"github.com/Garsondee/Memory-Duel/internal/board"
	"github.com/Garsondee/Memory-Duel/internal/identity"
	"github.com/Garsondee/Memory-Duel/internal/protocol"
)

// Settings are the fixed parameters of a session.
type Settings struct {
	Endpoint      string
	MatchingDelay time.Duration
	ResultDelay   time.Duration
	Layout        board.Layout
	CanvasWidth   float64
	CanvasHeight  float64
	// Avatar is the picture shown on the user page.
	Avatar string
}

// DefaultSettings returns the stock timings and the 4x4 layout.
func DefaultSettings() Settings {
	return Settings{
		Endpoint:      "ws://localhost:9002/ws?playerSessionId=test",
		MatchingDelay: 7 * time.Second,
		ResultDelay:   1400 * time.Millisecond,
		Layout:        board.DefaultLayout(),
		CanvasWidth:   1000,
		CanvasHeight:  800,
		Avatar:        "./image/d.jpg",
	}
}

// Round is a resolved pick pair waiting for the result display to close.
type Round struct {
	Status    protocol.Status
	Card      int
	Challenge int
}

// Session is all mutable game state. It is owned by the Coordinator and only
// touched from the frame goroutine.
type Session struct {
	Settings Settings

	Scene     Kind
	EnteredAt time.Time

	Board     *board.Board
	BackImage string
	Cursor    int

	MyScore       int
	OpponentScore int
	MyTurn        bool
	// Challenge is the first card of the round in flight, or -1.
	Challenge int
	// Opened counts cards confirmed as matched pairs.
	Opened  int
	Last    protocol.Message
	Pending *Round
	// Outcome is the status shown by the result display.
	Outcome protocol.Status

	// MatchArmed allows the matching scene to open the channel once.
	MatchArmed        bool
	IdentityID        string
	IdentityRequested bool
	Credentials       *identity.Credentials

	// Alert is a modal message; scene steps are suspended while it is set.
	Alert        string
	TransportErr error
}

// NewSession creates the state for a fresh client.
func NewSession(settings Settings) *Session {
	return &Session{
		Settings:   settings,
		Scene:      Intro,
		Challenge:  -1,
		MatchArmed: true,
	}
}

// CardCount is the number of cards on a full board.
func (s *Session) CardCount() int {
	if s.Board != nil {
		return s.Board.Len()
	}
	return s.Settings.Layout.Count()
}

// Finished reports whether every card has been matched.
func (s *Session) Finished() bool {
	return s.Board != nil && s.Opened >= s.Board.Len()
}

// resetMatch clears everything scoped to one match.
func (s *Session) resetMatch() {
	s.Board = nil
	s.BackImage = ""
	s.Cursor = 0
	s.MyScore = 0
	s.OpponentScore = 0
	s.MyTurn = false
	s.Challenge = -1
	s.Opened = 0
	s.Last = nil
	s.Pending = nil
	s.Outcome = ""
	s.TransportErr = nil
}
