package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/inkblade/internal/model"
)

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5F0E6")).Bold(true)
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8A29E"))
	healingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399"))
	cursorStyle    = pendingStyle.Underline(true)

	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5F0E6")).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8A29E"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B91C1C")).Bold(true)
	comboStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#CA8A04"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F5F0E6")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#B91C1C"))
	unselectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8A29E")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#44403C"))
	panelStyle = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.DoubleBorder(), true).
			BorderForeground(lipgloss.Color("#57534E"))
)

var elementColors = map[model.Element]lipgloss.Color{
	model.ElementFire:    "#DC2626",
	model.ElementWater:   "#2563EB",
	model.ElementWood:    "#16A34A",
	model.ElementMetal:   "#CA8A04",
	model.ElementEarth:   "#A8A29E",
	model.ElementHealing: "#34D399",
}

func elementStyle(e model.Element) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(elementColors[e]).Bold(true)
}

var difficultyNames = map[model.Difficulty]string{
	model.DifficultyEasy:   "初出茅廬",
	model.DifficultyNormal: "身經百戰",
	model.DifficultyHard:   "一代宗師",
}
