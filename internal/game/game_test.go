package game

import (
	"strings"
	"testing"

	"github.com/Garsondee/Memory-Duel/internal/input"
	"github.com/Garsondee/Memory-Duel/internal/scene"
)

func TestKeyMap_CoversEveryKey(t *testing.T) {
	for _, k := range input.Keys() {
		if _, ok := keyMap[k]; !ok {
			t.Fatalf("%s has no window key", k)
		}
	}
}

func TestJournalPanel_ShowsNewestThatFit(t *testing.T) {
	j := scene.NewJournal(0)
	for i := 0; i < 50; i++ {
		j.Add(i, scene.Choose, "input", "cursor", "moved")
	}
	j.Add(50, scene.Stop, "round", "resolve", "Success")

	p := NewJournalPanel(j)
	lines := p.Lines(24 + 10*panelLineHeight)
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(lines))
	}
	last := lines[len(lines)-1]
	if !strings.Contains(last, "resolve") || !strings.Contains(last, "Success") {
		t.Fatalf("newest entry should be last, got %q", last)
	}
	if p.Lines(10) != nil {
		t.Fatalf("a panel too short for one line shows nothing")
	}
}
