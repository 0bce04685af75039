package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable lays out rows in space-separated columns sized in terminal
// cells, so CJK outcome labels and boss names line up with ASCII ones.
func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	all := rows
	if len(headers) > 0 {
		all = append([][]string{headers}, rows...)
	}
	widths := columnWidths(all)
	if len(widths) == 0 {
		return nil
	}
	lines := make([]string, 0, len(all))
	cells := make([]string, len(widths))
	for _, row := range all {
		for i, w := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = padCell(cell, w, rightAlignCols[i])
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return lines
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], displayWidth(cell))
		}
	}
	return widths
}

func padCell(value string, width int, rightAlign bool) string {
	if rightAlign {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}

// displayWidth counts terminal cells, so CJK labels take two.
func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
