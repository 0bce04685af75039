// Package historyui provides the Bubble Tea run history interface.
package historyui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/inkblade/internal/model"
	"github.com/verte-zerg/inkblade/internal/stats"
	"github.com/verte-zerg/inkblade/internal/store"
)

const (
	tabOverview = iota
	tabRuns
)

const topRunCount = 5

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F5F0E6")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#B91C1C"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#A8A29E")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#44403C"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#78716C"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#44403C"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5F0E6")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C8C2BA"))
	sparkStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B91C1C"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	store  *store.Store
	filter model.HistoryFilter

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	runTable  table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a history UI model.
func NewModel(st *store.Store, filter model.HistoryFilter) *Model {
	m := &Model{
		store:    st,
		filter:   filter,
		tabs:     []string{"Overview", "Runs"},
		overview: viewport.New(0, 0),
		runTable: buildRunTable(nil, 0, 1),
	}
	m.initInputs()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h", "right", "l", "tab":
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
			if m.activeTab == tabRuns {
				m.runTable.Focus()
			} else {
				m.runTable.Blur()
			}
			return m, tea.ClearScreen
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabRuns {
				m.runTable.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabRuns {
				m.runTable.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabRuns {
			m.runTable, cmd = m.runTable.Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Difficulty (easy/normal/hard): "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
	}
	m.setInputsFromFilter()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromFilter() {
	difficulty := ""
	if m.filter.Difficulty != nil {
		difficulty = m.filter.Difficulty.String()
	}
	m.filterInputs[0].SetValue(difficulty)
	since := ""
	if m.filter.Since != nil {
		since = m.filter.Since.Format("2006-01-02")
	}
	m.filterInputs[1].SetValue(since)
	last := ""
	if m.filter.Last > 0 {
		last = strconv.Itoa(m.filter.Last)
	}
	m.filterInputs[2].SetValue(last)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.runTable.SetWidth(m.width)
	m.runTable.SetHeight(max(bodyHeight-1, 1))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return m.renderTabs() + "\n" + m.renderFilterSummary()
}

func (m *Model) renderFilterSummary() string {
	difficulty := "any"
	if m.filter.Difficulty != nil {
		difficulty = m.filter.Difficulty.String()
	}
	since := "any"
	if m.filter.Since != nil {
		since = m.filter.Since.Format("2006-01-02")
	}
	last := "all"
	if m.filter.Last > 0 {
		last = strconv.Itoa(m.filter.Last)
	}
	summary := fmt.Sprintf("Filter: difficulty=%s  since=%s  last=%s", difficulty, since, last)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Tabs: left/right  Scroll: up/down  Filter: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.filterMode {
		lines := []string{"Filter (enter to apply, esc to cancel)"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return strings.Join(lines, "\n")
	}
	if m.activeTab == tabRuns {
		if len(m.report.Runs) == 0 {
			return "No runs found."
		}
		return tableMutedStyle.Render(m.runTable.View())
	}
	return m.overview.View()
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.filter, topRunCount)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load history.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.runTable.SetRows(runRows(report.Runs))
	m.runTable.GotoBottom()
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, width))
}

func renderOverview(report stats.Report, width int) string {
	if len(report.Runs) == 0 {
		return "No runs found."
	}
	sum := report.Summary
	cards := []string{
		metricCard("Runs", strconv.Itoa(sum.Runs)),
		metricCard("Victories", fmt.Sprintf("%d (%.0f%%)", sum.Victories, sum.WinRate()*100)),
		metricCard("Best score", strconv.Itoa(sum.BestScore)),
		metricCard("Avg score", fmt.Sprintf("%.1f", sum.AvgScore)),
		metricCard("Avg level", fmt.Sprintf("%.2f", sum.AvgLevel)),
		metricCard("Best combo", strconv.Itoa(sum.BestCombo)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	scores := stats.Scores(report.Runs)
	if len(scores) > width-8 && width > 8 {
		scores = scores[len(scores)-(width-8):]
	}
	sections := []string{
		summary,
		headerStyle.Render("Scores") + "\n" + sparkStyle.Render(stats.Sparkline(scores)),
		renderDifficultyBreakdown(report.ByDifficulty),
		renderTopRuns(report.Top),
	}
	return strings.Join(sections, "\n\n")
}

func renderDifficultyBreakdown(groups map[model.Difficulty]stats.Summary) string {
	lines := []string{headerStyle.Render("By difficulty")}
	for _, d := range model.Difficulties {
		sum, ok := groups[d]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-7s runs=%-4d wins=%-4d best=%-6d avg level=%.2f",
			d.String(), sum.Runs, sum.Victories, sum.BestScore, sum.AvgLevel))
	}
	return strings.Join(lines, "\n")
}

func renderTopRuns(top []model.RunRecord) string {
	lines := []string{headerStyle.Render("Top runs")}
	for i, r := range top {
		lines = append(lines, fmt.Sprintf("%d. %6d  L%d  %s  %s", i+1, r.Score, r.Level, r.Difficulty, stats.OutcomeLabel(r.Outcome)))
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func runColumns() []table.Column {
	return []table.Column{
		{Title: "Ended", Width: 16},
		{Title: "Difficulty", Width: 10},
		{Title: "Outcome", Width: 10},
		{Title: "Level", Width: 5},
		{Title: "Score", Width: 7},
		{Title: "Combo", Width: 5},
		{Title: "HP", Width: 4},
	}
}

func runRows(runs []model.RunRecord) []table.Row {
	rows := make([]table.Row, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, table.Row(stats.RunRow(r)))
	}
	return rows
}

func buildRunTable(runs []model.RunRecord, width, height int) table.Model {
	t := table.New(
		table.WithColumns(runColumns()),
		table.WithRows(runRows(runs)),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(runTableStyles())
	return t
}

func runTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#44403C")).
		Foreground(lipgloss.Color("#C8C2BA")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F5F0E6")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromFilter()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		filter, err := parseFilter(m.filterInputs[0].Value(), m.filterInputs[1].Value(), m.filterInputs[2].Value())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filter = filter
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	idx = (idx%count + count) % count
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == idx {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func parseFilter(difficultyInput, sinceInput, lastInput string) (model.HistoryFilter, error) {
	var filter model.HistoryFilter
	if v := strings.TrimSpace(difficultyInput); v != "" {
		d, err := model.ParseDifficulty(v)
		if err != nil {
			return filter, err
		}
		filter.Difficulty = &d
	}
	if v := strings.TrimSpace(sinceInput); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		filter.Since = &parsed
	}
	if v := strings.TrimSpace(lastInput); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return filter, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		filter.Last = parsed
	}
	return filter, nil
}

// fitLines pads every line to width and the block to exactly height lines.
func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	out := make([]string, height)
	for i := range out {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		out[i] = lipgloss.PlaceHorizontal(width, lipgloss.Left, line)
	}
	return strings.Join(out, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
