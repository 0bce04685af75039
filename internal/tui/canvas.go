package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/inkblade/internal/particles"
)

const fadeLife = 0.3

type cell struct {
	text string
	used bool
	skip bool
}

// canvas is a character grid the particle space is scaled onto.
type canvas struct {
	width  int
	height int
	rows   [][]cell
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: max(width, 1), height: max(height, 1)}
	c.rows = make([][]cell, c.height)
	for y := range c.rows {
		c.rows[y] = make([]cell, c.width)
	}
	return c
}

// place writes a glyph at x,y unless it would overlap another glyph or the
// edge. Wide glyphs occupy their trailing cells.
func (c *canvas) place(x, y int, glyph string, style lipgloss.Style) bool {
	w := max(runewidth.StringWidth(glyph), 1)
	if y < 0 || y >= c.height || x < 0 || x+w > c.width {
		return false
	}
	for i := x; i < x+w; i++ {
		if c.rows[y][i].used {
			return false
		}
	}
	c.rows[y][x] = cell{text: style.Render(glyph), used: true}
	for i := x + 1; i < x+w; i++ {
		c.rows[y][i] = cell{used: true, skip: true}
	}
	return true
}

// placeCentered writes text centred in the grid.
func (c *canvas) placeCentered(text string, style lipgloss.Style) {
	w := runewidth.StringWidth(text)
	c.place((c.width-w)/2, c.height/2, text, style)
}

func (c *canvas) plot(ps []particles.Particle) {
	for _, p := range ps {
		x := int(math.Floor(p.X / particles.CanvasWidth * float64(c.width)))
		y := int(math.Floor(p.Y / particles.CanvasHeight * float64(c.height)))
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color))
		if p.Life < fadeLife {
			style = style.Faint(true)
		}
		c.place(x, y, p.Glyph, style)
	}
}

func (c *canvas) String() string {
	lines := make([]string, c.height)
	for y, row := range c.rows {
		var b strings.Builder
		for _, cl := range row {
			switch {
			case cl.skip:
			case cl.used:
				b.WriteString(cl.text)
			default:
				b.WriteByte(' ')
			}
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
