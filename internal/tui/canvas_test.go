package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/inkblade/internal/particles"
)

func TestCanvasPlotsScaledParticles(t *testing.T) {
	c := newCanvas(10, 4)
	c.plot([]particles.Particle{
		{X: particles.CanvasWidth / 2, Y: particles.CanvasHeight / 2, Life: 1, Glyph: "+"},
		{X: -50, Y: 10, Life: 1, Glyph: "+"},
		{X: 10, Y: particles.CanvasHeight + 1, Life: 1, Glyph: "+"},
	})
	lines := strings.Split(c.String(), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(lines))
	}
	if !strings.Contains(lines[2], "+") {
		t.Fatalf("expected centre particle on row 2, got %q", c.String())
	}
	if strings.Count(c.String(), "+") != 1 {
		t.Fatalf("out-of-bounds particles must be dropped")
	}
}

func TestCanvasWideGlyphKeepsRowWidth(t *testing.T) {
	c := newCanvas(9, 3)
	plain := lipgloss.NewStyle()
	c.placeCentered("火", plain)
	if c.place(4, 1, "+", plain) {
		t.Fatalf("overlapping placement must be refused")
	}
	for i, line := range strings.Split(c.String(), "\n") {
		if w := runewidth.StringWidth(line); w != 9 {
			t.Fatalf("row %d: expected width 9, got %d (%q)", i, w, line)
		}
	}
	if c.place(8, 0, "火", plain) {
		t.Fatalf("wide glyph past the edge must be refused")
	}
}
