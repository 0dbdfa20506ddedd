package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Memory-Duel/internal/scene"
)

const (
	panelWidth      = 320
	panelLineHeight = 11
	journalCapacity = 2000
)

// JournalPanel draws the most recent journal entries down the right edge
// of the window. Toggled with F3.
type JournalPanel struct {
	journal *scene.Journal
}

func NewJournalPanel(j *scene.Journal) *JournalPanel {
	return &JournalPanel{journal: j}
}

// Lines returns what the panel shows for a panel of height h, oldest first.
func (p *JournalPanel) Lines(h int) []string {
	maxVisible := (h - 24) / panelLineHeight
	if maxVisible <= 0 {
		return nil
	}
	entries := p.journal.Tail(maxVisible)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = fmt.Sprintf("%4d %-8s %s %s", e.Tick, e.Scene, e.Key, e.Value)
	}
	return out
}

func (p *JournalPanel) Draw(screen *ebiten.Image, panelX, panelH int) {
	vector.DrawFilledRect(screen, float32(panelX), 0, panelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 20, A: 230}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 50, B: 80, A: 255}, false)

	vector.DrawFilledRect(screen, float32(panelX), 0, panelWidth, 16, color.RGBA{R: 20, G: 20, B: 40, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "JOURNAL", panelX+8, 2)

	lines := p.Lines(panelH)
	recent := 3
	y := 20
	for i, line := range lines {
		if i >= len(lines)-recent {
			vector.DrawFilledRect(screen, float32(panelX+2), float32(y), panelWidth-4, panelLineHeight, color.RGBA{R: 30, G: 30, B: 50, A: 160}, false)
		}
		ebitenutil.DebugPrintAt(screen, line, panelX+6, y)
		y += panelLineHeight
	}
}
