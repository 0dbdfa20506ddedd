// Package protocol defines the JSON messages exchanged with the match server
// and the WebSocket client that carries them.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Phase selects how an inbound message is interpreted. The same wire object
// means different things while matching and while playing.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseMatching
	PhasePlay
)

func (p Phase) String() string {
	switch p {
	case PhaseMatching:
		return "matching"
	case PhasePlay:
		return "play"
	default:
		return "none"
	}
}

// Status is the status field of inbound messages.
type Status string

const (
	StatusStart       Status = "start"
	StatusChallenging Status = "challenging"
	StatusSuccess     Status = "Success"
	StatusFailed      Status = "Failed"
)

// Terminal reports whether the status resolves a round.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// Message is a validated inbound message: *Start or *Reveal.
type Message interface {
	Phase() Phase
}

// Start announces the match and the shared card back image.
type Start struct {
	Status   Status `json:"status"`
	Picture  string `json:"picture"`
	YourTurn bool   `json:"your_turn"`
}

func (*Start) Phase() Phase { return PhaseMatching }

// Reveal reports one pick: the card, its face, and the state of the round.
type Reveal struct {
	Card          int    `json:"card"`
	Picture       string `json:"picture"`
	Status        Status `json:"status"`
	YourScore     int    `json:"your_score"`
	OpponentScore int    `json:"opponent_score"`
	YourTurn      bool   `json:"your_turn"`
}

func (*Reveal) Phase() Phase { return PhasePlay }

// Selection is the only outbound message: the card the local player picks.
type Selection struct {
	Card int `json:"card"`
}

// EncodeSelection marshals a pick.
func EncodeSelection(card int) ([]byte, error) {
	return json.Marshal(Selection{Card: card})
}

// DecodeSelection parses a pick; used by the referee.
func DecodeSelection(raw []byte) (Selection, error) {
	var w struct {
		Card *int `json:"card"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return Selection{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if w.Card == nil {
		return Selection{}, fmt.Errorf("%w: missing card", ErrMalformed)
	}
	return Selection{Card: *w.Card}, nil
}

// wireMessage mirrors every inbound field as a pointer so absence can be told
// apart from a zero value.
type wireMessage struct {
	Card          *int    `json:"card"`
	Picture       *string `json:"picture"`
	Status        *Status `json:"status"`
	YourScore     *int    `json:"your_score"`
	OpponentScore *int    `json:"opponent_score"`
	YourTurn      *bool   `json:"your_turn"`
}

// Decode validates raw against the schema of phase and returns the typed
// message. Anything not matching a known shape is an error; callers treat it
// as a no-op.
func Decode(phase Phase, raw []byte) (Message, error) {
	var w wireMessage
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch phase {
	case PhaseMatching:
		return decodeStart(w)
	case PhasePlay:
		return decodeReveal(w)
	default:
		return nil, ErrNoPhase
	}
}

func decodeStart(w wireMessage) (*Start, error) {
	if w.Status == nil {
		return nil, fmt.Errorf("%w: missing status", ErrMalformed)
	}
	if *w.Status != StatusStart {
		return nil, fmt.Errorf("%w: %q while matching", ErrUnknownStatus, *w.Status)
	}
	if w.Picture == nil || *w.Picture == "" {
		return nil, fmt.Errorf("%w: missing picture", ErrMalformed)
	}
	m := &Start{Status: StatusStart, Picture: *w.Picture}
	if w.YourTurn != nil {
		m.YourTurn = *w.YourTurn
	}
	return m, nil
}

func decodeReveal(w wireMessage) (*Reveal, error) {
	switch {
	case w.Card == nil:
		return nil, fmt.Errorf("%w: missing card", ErrMalformed)
	case w.Picture == nil:
		return nil, fmt.Errorf("%w: missing picture", ErrMalformed)
	case w.Status == nil:
		return nil, fmt.Errorf("%w: missing status", ErrMalformed)
	case w.YourScore == nil || w.OpponentScore == nil:
		return nil, fmt.Errorf("%w: missing score", ErrMalformed)
	case w.YourTurn == nil:
		return nil, fmt.Errorf("%w: missing your_turn", ErrMalformed)
	}
	if *w.Card < 0 {
		return nil, fmt.Errorf("%w: negative card %d", ErrMalformed, *w.Card)
	}
	switch *w.Status {
	case StatusChallenging, StatusSuccess, StatusFailed:
	default:
		return nil, fmt.Errorf("%w: %q while playing", ErrUnknownStatus, *w.Status)
	}
	return &Reveal{
		Card:          *w.Card,
		Picture:       *w.Picture,
		Status:        *w.Status,
		YourScore:     *w.YourScore,
		OpponentScore: *w.OpponentScore,
		YourTurn:      *w.YourTurn,
	}, nil
}
