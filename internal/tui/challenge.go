package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s     string
	width int
}

// buildStyledRunes colours the challenge against the pending input. Typed
// runes show the target rune, red when mistyped; the next rune is underlined.
func buildStyledRunes(target, input []rune, healing bool) []styledRune {
	pending := pendingStyle
	if healing {
		pending = healingStyle
	}
	out := make([]styledRune, 0, len(target))
	for i, r := range target {
		style := pending
		switch {
		case i < len(input) && input[i] == r:
			style = correctStyle
		case i < len(input):
			style = incorrectStyle
		case i == len(input):
			style = pending.Underline(true)
		}
		out = append(out, styledRune{
			s:     style.Render(string(r)),
			width: runewidth.RuneWidth(r),
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func styledWidth(runes []styledRune) int {
	total := 0
	for _, item := range runes {
		total += item.width
	}
	return total
}

// renderInput shows typed runes with a placeholder when empty.
func renderInput(input string, healing bool) string {
	if input != "" {
		return correctStyle.Render(input) + cursorStyle.Render(" ")
	}
	if healing {
		return healingStyle.Faint(true).Render("輸入以治癒...")
	}
	return pendingStyle.Faint(true).Render("輸入以攻擊...")
}
