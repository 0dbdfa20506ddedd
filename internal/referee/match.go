// Package referee is the authoritative side of the match protocol: it pairs
// players, deals the deck, validates picks and reports every outcome to both
// seats. It also serves the identity endpoints and the card images.
package referee

import (
	"fmt"
	"math/rand"

	"github.com/Garsondee/Memory-Duel/internal/protocol"
)

// Deal picks count/2 faces from names and returns them shuffled onto count
// cards, each face appearing exactly twice.
func Deal(names []string, count int, rng *rand.Rand) ([]string, error) {
	if count <= 0 || count%2 != 0 {
		return nil, fmt.Errorf("%w: %d cards", ErrShortDeck, count)
	}
	if len(names)*2 < count {
		return nil, fmt.Errorf("%w: %d faces for %d cards", ErrShortDeck, len(names), count)
	}
	deck := make([]string, 0, count)
	for _, n := range names[:count/2] {
		deck = append(deck, n, n)
	}
	if rng != nil {
		rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	}
	return deck, nil
}

// Outcome is the result of one accepted pick, from the referee's point of
// view. For turns it into the message a given seat receives.
type Outcome struct {
	Card    int
	Picture string
	Status  protocol.Status
	Scores  [2]int
	Turn    int
}

// For personalizes the outcome for seat.
func (o Outcome) For(seat int) *protocol.Reveal {
	return &protocol.Reveal{
		Card:          o.Card,
		Picture:       o.Picture,
		Status:        o.Status,
		YourScore:     o.Scores[seat],
		OpponentScore: o.Scores[1-seat],
		YourTurn:      o.Turn == seat,
	}
}

// Match is the state of one two-seat game. Seat 0 moves first. Match is not
// safe for concurrent use; the room that owns it serializes picks.
type Match struct {
	ID string

	deck      []string
	matched   []bool
	scores    [2]int
	turn      int
	challenge int
	opened    int
}

// NewMatch starts a match over deck, where deck[i] is the picture of card i.
func NewMatch(id string, deck []string) *Match {
	return &Match{
		ID:        id,
		deck:      deck,
		matched:   make([]bool, len(deck)),
		challenge: -1,
	}
}

// Start is the opening message for seat.
func (m *Match) Start(seat int, back string) *protocol.Start {
	return &protocol.Start{
		Status:   protocol.StatusStart,
		Picture:  back,
		YourTurn: m.turn == seat,
	}
}

// Pick applies seat's selection of card. The first pick of a round is a
// challenge; the second resolves it. A match keeps the turn, a miss passes it.
func (m *Match) Pick(seat, card int) (Outcome, error) {
	switch {
	case m.Over():
		return Outcome{}, ErrMatchOver
	case seat != m.turn:
		return Outcome{}, fmt.Errorf("%w: seat %d", ErrNotYourTurn, seat)
	case card < 0 || card >= len(m.deck):
		return Outcome{}, fmt.Errorf("%w: %d", ErrOutOfRange, card)
	case m.matched[card]:
		return Outcome{}, fmt.Errorf("%w: %d", ErrCardOpen, card)
	case card == m.challenge:
		return Outcome{}, fmt.Errorf("%w: %d", ErrChallengeCard, card)
	}

	out := Outcome{Card: card, Picture: m.deck[card]}
	switch {
	case m.challenge < 0:
		m.challenge = card
		out.Status = protocol.StatusChallenging
	case m.deck[m.challenge] == m.deck[card]:
		m.matched[m.challenge] = true
		m.matched[card] = true
		m.opened += 2
		m.scores[seat]++
		m.challenge = -1
		out.Status = protocol.StatusSuccess
	default:
		m.challenge = -1
		m.turn = 1 - seat
		out.Status = protocol.StatusFailed
	}
	out.Scores = m.scores
	out.Turn = m.turn
	return out, nil
}

// Over reports whether every card has been matched.
func (m *Match) Over() bool { return m.opened >= len(m.deck) }

// Scores returns the per-seat scores.
func (m *Match) Scores() [2]int { return m.scores }

// Turn returns the seat to move.
func (m *Match) Turn() int { return m.turn }

// Challenge returns the card awaiting its partner, or -1.
func (m *Match) Challenge() int { return m.challenge }

// Len is the number of cards.
func (m *Match) Len() int { return len(m.deck) }

// Picture returns the face of card i.
func (m *Match) Picture(i int) string { return m.deck[i] }
