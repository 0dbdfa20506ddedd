package main

import (
	"errors"
	"testing"
	"time"

	"github.com/Garsondee/Memory-Duel/internal/board"
	"github.com/Garsondee/Memory-Duel/internal/input"
	"github.com/Garsondee/Memory-Duel/internal/loop"
	"github.com/Garsondee/Memory-Duel/internal/scene"
)

func TestWinner(t *testing.T) {
	cases := []struct {
		a, b int
		err  error
		want string
	}{
		{5, 3, nil, "alpha"},
		{2, 6, nil, "beta"},
		{4, 4, nil, "draw"},
		{8, 0, errNoResult, ""},
	}
	for _, tc := range cases {
		rs := runStats{err: tc.err}
		rs.seats[0] = seatStats{name: "alpha", score: tc.a}
		rs.seats[1] = seatStats{name: "beta", score: tc.b}
		if got := winner(rs); got != tc.want {
			t.Fatalf("winner(%d,%d,%v) = %q, want %q", tc.a, tc.b, tc.err, got, tc.want)
		}
	}
}

func TestBot_Step(t *testing.T) {
	b := &bot{}
	cases := []struct {
		cursor, target int
		want           input.Key
		move           bool
	}{
		{0, 12, input.KeyDown, true},
		{13, 1, input.KeyUp, true},
		{4, 6, input.KeyRight, true},
		{7, 5, input.KeyLeft, true},
		{9, 9, 0, false},
	}
	for _, tc := range cases {
		k, ok := b.step(tc.cursor, tc.target, 4)
		if ok != tc.move || (ok && k != tc.want) {
			t.Fatalf("step(%d,%d) = %s,%v want %s,%v", tc.cursor, tc.target, k, ok, tc.want, tc.move)
		}
	}
}

// newBoardBot gives a bot a session with a board and no network.
func newBoardBot(t *testing.T) (*bot, *scene.Session) {
	t.Helper()
	h := loop.NewHeadless()
	t.Cleanup(h.Close)
	s := h.Session
	s.BackImage = "back"
	s.Board = board.New(s.Settings.Layout, "back")
	return newBot("test", h), s
}

func reveal(s *scene.Session, i int, face string) {
	c := s.Board.Card(i)
	c.SetFace(face)
	c.SetRevealed(true)
}

func hide(s *scene.Session, i int) {
	c := s.Board.Card(i)
	c.SetFace(s.BackImage)
	c.SetRevealed(false)
}

func TestBot_TakesKnownPair(t *testing.T) {
	b, s := newBoardBot(t)
	reveal(s, 3, "x")
	reveal(s, 9, "x")
	b.observe()
	hide(s, 3)
	hide(s, 9)

	if got := b.target(s); got != 3 {
		t.Fatalf("target = %d, want 3", got)
	}
	s.Challenge = 3
	reveal(s, 3, "x")
	if got := b.target(s); got != 9 {
		t.Fatalf("partner = %d, want 9", got)
	}
}

func TestBot_PrefersUnseenCards(t *testing.T) {
	b, s := newBoardBot(t)
	reveal(s, 0, "a")
	reveal(s, 1, "b")
	b.observe()
	hide(s, 0)
	hide(s, 1)

	if got := b.target(s); got != 2 {
		t.Fatalf("target = %d, want first unseen card 2", got)
	}
}

func TestBot_DrivesLoginToMatching(t *testing.T) {
	h := loop.NewHeadless()
	t.Cleanup(h.Close)
	b := newBot("test", h)

	deadline := time.Now().Add(3 * time.Second)
	for h.Session.Scene != scene.Matching && time.Now().Before(deadline) {
		b.act()
		h.Step()
		b.observe()
		time.Sleep(time.Millisecond)
	}
	if h.Session.Scene != scene.Matching {
		t.Fatalf("bot stuck in %s", h.Session.Scene)
	}
}

func TestRunMatch_Completes(t *testing.T) {
	if testing.Short() {
		t.Skip("plays a full match over loopback")
	}
	rs := runMatch(1, 7, 20000, 200*time.Microsecond)
	if rs.err != nil && !errors.Is(rs.err, errNoResult) {
		t.Fatalf("run failed: %v", rs.err)
	}
	if rs.err != nil {
		t.Fatalf("match did not finish: %v", rs.err)
	}
	total := rs.seats[0].score + rs.seats[1].score
	if total != 8 {
		t.Fatalf("scores %d+%d, want 8 pairs in total", rs.seats[0].score, rs.seats[1].score)
	}
	for _, st := range rs.seats {
		if st.sceneSeen != scene.End.String() {
			t.Fatalf("%s ended in %s", st.name, st.sceneSeen)
		}
	}
}
