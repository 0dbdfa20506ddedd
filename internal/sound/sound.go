// Package sound plays the background loop and the card flip effect.
package sound

import (
	"errors"
	"sync"
)

// ErrUnsupportedFormat is reported by Load for files that are neither mp3
// nor wav.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Sound is a single clip. Load is asynchronous; playing a clip that has not
// finished loading does nothing.
type Sound interface {
	Load(path string, onReady func(error))
	Play()
	PlayLoop()
	Stop()
}

// Silent is a Sound that only counts calls. Headless runs and tests use it.
type Silent struct {
	mu      sync.Mutex
	path    string
	plays   int
	loops   int
	stops   int
	looping bool
}

func (s *Silent) Load(path string, onReady func(error)) {
	s.mu.Lock()
	s.path = path
	s.mu.Unlock()
	if onReady != nil {
		onReady(nil)
	}
}

func (s *Silent) Play() {
	s.mu.Lock()
	s.plays++
	s.mu.Unlock()
}

func (s *Silent) PlayLoop() {
	s.mu.Lock()
	s.loops++
	s.looping = true
	s.mu.Unlock()
}

func (s *Silent) Stop() {
	s.mu.Lock()
	s.stops++
	s.looping = false
	s.mu.Unlock()
}

// Counts returns how often Play, PlayLoop and Stop were called.
func (s *Silent) Counts() (plays, loops, stops int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plays, s.loops, s.stops
}

// Looping reports whether a loop is running.
func (s *Silent) Looping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.looping
}
