package referee

import "errors"

var (
	ErrNotYourTurn   = errors.New("not this seat's turn")
	ErrCardOpen      = errors.New("card already matched")
	ErrOutOfRange    = errors.New("card out of range")
	ErrChallengeCard = errors.New("card is the open challenge")
	ErrMatchOver     = errors.New("match is over")
	// ErrShortDeck is returned by Deal when there are not enough faces to
	// fill the board, or the board has an odd number of cards.
	ErrShortDeck = errors.New("cannot deal deck")
)
