package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Garsondee/Memory-Duel/internal/input"
	"github.com/Garsondee/Memory-Duel/internal/loop"
	"github.com/Garsondee/Memory-Duel/internal/scene"
)

var errNoResult = errors.New("match did not finish")

// resendAfter is how many ticks the bot waits for its pick to be revealed
// before choosing again.
const resendAfter = 120

// bot plays one client through the keyboard. It remembers every face it has
// seen on the board and takes a known pair whenever one is available.
type bot struct {
	name string
	h    *loop.Headless

	known    map[int]string
	holding  bool
	held     input.Key
	awaiting int
	sentAt   int
	picks    int
	panics   int
}

func newBot(name string, h *loop.Headless) *bot {
	return &bot{
		name:     name,
		h:        h,
		known:    make(map[int]string),
		awaiting: -1,
	}
}

func (b *bot) press(k input.Key) {
	b.h.Keys.Hold(k)
	b.held = k
	b.holding = true
}

// act decides the key for the coming frame. Every press is followed by a
// frame with the key released so the latch re-arms.
func (b *bot) act() {
	if b.holding {
		b.h.Keys.Release(b.held)
		b.holding = false
		return
	}
	s := b.h.Session
	switch s.Scene {
	case scene.Intro:
		b.press(input.KeyEnter)
	case scene.Login:
		if !s.IdentityRequested {
			b.press(input.KeyEnter)
		}
	case scene.UserPage:
		b.press(input.KeyM)
	case scene.Choose:
		b.choose(s)
	}
}

func (b *bot) choose(s *scene.Session) {
	if s.Board == nil || !s.MyTurn {
		return
	}
	tick := b.h.CurrentTick()
	if b.awaiting >= 0 {
		if c := s.Board.Card(b.awaiting); c != nil && !c.Revealed() && tick-b.sentAt < resendAfter {
			return
		}
		b.awaiting = -1
	}

	target := b.target(s)
	if target < 0 {
		return
	}
	if k, ok := b.step(s.Cursor, target, s.Settings.Layout.Cols); ok {
		b.press(k)
		return
	}
	b.press(input.KeyEnter)
	b.awaiting = target
	b.sentAt = tick
	b.picks++
}

// step returns the arrow that moves the cursor towards target, rows first.
func (b *bot) step(cursor, target, cols int) (input.Key, bool) {
	switch {
	case cols > 0 && target/cols < cursor/cols:
		return input.KeyUp, true
	case cols > 0 && target/cols > cursor/cols:
		return input.KeyDown, true
	case target < cursor:
		return input.KeyLeft, true
	case target > cursor:
		return input.KeyRight, true
	}
	return 0, false
}

// target picks the next card: the partner of the open challenge if known,
// else a known pair, else a card never seen.
func (b *bot) target(s *scene.Session) int {
	n := s.Board.Len()
	down := func(i int) bool {
		c := s.Board.Card(i)
		return c != nil && !c.Revealed() && i != s.Challenge
	}

	if s.Challenge >= 0 {
		face := b.known[s.Challenge]
		for i := 0; i < n; i++ {
			if down(i) && face != "" && b.known[i] == face {
				return i
			}
		}
		return b.unseen(n, down)
	}

	seen := make(map[string]int)
	for i := 0; i < n; i++ {
		if !down(i) {
			continue
		}
		f, ok := b.known[i]
		if !ok {
			continue
		}
		if j, ok := seen[f]; ok {
			return j
		}
		seen[f] = i
	}
	return b.unseen(n, down)
}

func (b *bot) unseen(n int, down func(int) bool) int {
	fallback := -1
	for i := 0; i < n; i++ {
		if !down(i) {
			continue
		}
		if _, ok := b.known[i]; !ok {
			return i
		}
		if fallback < 0 {
			fallback = i
		}
	}
	return fallback
}

// observe records faces showing on the board after a frame.
func (b *bot) observe() {
	s := b.h.Session
	if s.Scene != scene.Choose {
		b.awaiting = -1
	}
	if s.Board == nil {
		return
	}
	for i := 0; i < s.Board.Len(); i++ {
		c := s.Board.Card(i)
		if c.Revealed() && c.Face() != s.BackImage {
			b.known[i] = c.Face()
		}
	}
}

// play runs frames until the end scene, the tick budget or ctx runs out.
func (b *bot) play(ctx context.Context, maxTicks int, pace time.Duration) error {
	for i := 0; i < maxTicks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.act()
		if err := b.h.Step(); err != nil {
			b.panics++
		}
		b.observe()
		if b.h.Session.Scene == scene.End {
			return nil
		}
		if pace > 0 {
			time.Sleep(pace)
		}
	}
	return fmt.Errorf("%w: %s stuck in %s after %d ticks", errNoResult, b.name, b.h.Session.Scene, maxTicks)
}
