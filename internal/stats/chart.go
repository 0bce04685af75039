package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	minBarWidth         = 10
	terminalWidthBackup = 80
	barFill             = "█"
	barEmpty            = "░"
)

var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B91C1C"))

// RenderBars prints a horizontal bar per value, scaled to 100. Width is the
// total line width; zero picks the terminal width.
func RenderBars(w io.Writer, bars []Bar, width int, forceColor bool) error {
	for _, line := range BarLines(bars, width, shouldUseColor(w, forceColor)) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// BarLines formats bars as text lines.
func BarLines(bars []Bar, width int, color bool) []string {
	if len(bars) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}
	labelWidth := 0
	for _, b := range bars {
		labelWidth = max(labelWidth, runewidth.StringWidth(b.Label))
	}
	// label, space, bar, space, "100%"
	barWidth := max(width-labelWidth-6, minBarWidth)
	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		filled := int(clampPct(b.Value) / 100 * float64(barWidth))
		bar := strings.Repeat(barFill, filled)
		if color {
			bar = barStyle.Render(bar)
		}
		bar += strings.Repeat(barEmpty, barWidth-filled)
		lines = append(lines, fmt.Sprintf("%s %s %3.0f%%", padCell(b.Label, labelWidth, false), bar, clampPct(b.Value)))
	}
	return lines
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
