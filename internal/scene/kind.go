// Package scene is the game's state machine: a fixed set of scene kinds,
// each with a step function, a view and an optional interpretation of inbound
// match messages, all operating on one Session.
package scene

import "github.com/Garsondee/Memory-Duel/internal/protocol"

// Kind names a scene.
type Kind int

// Stay is returned by a step that keeps the current scene.
const Stay Kind = -1

const (
	Intro Kind = iota
	Login
	UserPage
	Matching
	Choose
	Wait
	Stop
	End
	kindCount
)

var kindNames = [kindCount]string{
	Intro:    "intro",
	Login:    "login",
	UserPage: "userpage",
	Matching: "matching",
	Choose:   "choose",
	Wait:     "wait",
	Stop:     "stop",
	End:      "end",
}

func (k Kind) String() string {
	if k == Stay {
		return "stay"
	}
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is a registrable scene.
func (k Kind) Valid() bool { return k >= 0 && k < kindCount }

// Backdrop reports whether the starfield is drawn behind the scene.
func (k Kind) Backdrop() bool {
	switch k {
	case Matching, Choose, Wait, Stop, End:
		return true
	}
	return false
}

// InMatch reports whether the match channel is expected to be open.
func (k Kind) InMatch() bool {
	switch k {
	case Matching, Choose, Wait, Stop:
		return true
	}
	return false
}

// phase selects how inbound messages are read in scene k. Once the board
// exists the matching scene already accepts reveals, because the opponent
// may finish its own matching delay first and pick straight away.
func phase(k Kind, boardReady bool) protocol.Phase {
	switch k {
	case Matching:
		if boardReady {
			return protocol.PhasePlay
		}
		return protocol.PhaseMatching
	case Choose, Wait, Stop:
		return protocol.PhasePlay
	}
	return protocol.PhaseNone
}
