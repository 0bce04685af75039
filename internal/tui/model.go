// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/inkblade/internal/model"
	"github.com/verte-zerg/inkblade/internal/particles"
	"github.com/verte-zerg/inkblade/internal/session"
	"github.com/verte-zerg/inkblade/internal/stats"
	"github.com/verte-zerg/inkblade/internal/store"
)

// DefaultFrame is the redraw and particle step interval.
const DefaultFrame = time.Second / 60

const (
	canvasHeight  = 7
	maxPanelWidth = 64
	barWidth      = 30
)

// Options wires the UI to a running session.
type Options struct {
	Session   *session.Session
	Particles *particles.Simulator
	// Store is optional; finished runs are recorded when set.
	Store   *store.Store
	Frame   time.Duration
	Context context.Context
}

// Model implements the Bubble Tea game UI. It polls the session once per
// frame and forwards keystrokes to it.
type Model struct {
	session   *session.Session
	particles *particles.Simulator
	store     *store.Store
	ctx       context.Context
	frame     time.Duration

	snap       session.Snapshot
	frameCount int
	loading    bool

	recordedID string
	lastRecord model.RunRecord

	width  int
	height int

	spinner   spinner.Model
	healthBar progress.Model
	bossBar   progress.Model
	attackBar progress.Model
}

type frameMsg time.Time

type levelLoadedMsg struct {
	ok bool
}

// NewModel constructs a game UI model.
func NewModel(opts Options) *Model {
	m := &Model{
		session:   opts.Session,
		particles: opts.Particles,
		store:     opts.Store,
		ctx:       opts.Context,
		frame:     opts.Frame,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Points),
			spinner.WithStyle(accentStyle),
		),
		healthBar: newBar("#16A34A"),
		bossBar:   newBar("#DC2626"),
		attackBar: newBar("#CA8A04"),
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.frame <= 0 {
		m.frame = DefaultFrame
	}
	if m.particles == nil {
		m.particles = particles.New(0, 0)
	}
	m.snap = m.session.Snapshot()
	m.aimParticles()
	return m
}

func newBar(color string) progress.Model {
	return progress.New(
		progress.WithSolidFill(color),
		progress.WithoutPercentage(),
		progress.WithWidth(barWidth),
	)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.spinner.Tick)
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := min(barWidth, max(msg.Width-24, 10))
		m.healthBar.Width = w
		m.bossBar.Width = w
		m.attackBar.Width = w
		m.aimParticles()
		return m, nil
	case frameMsg:
		m.frameCount++
		m.particles.Step()
		m.refresh()
		return m, m.tick()
	case levelLoadedMsg:
		m.loading = false
		m.refresh()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.refresh()
		return m, cmd
	}
	return m, nil
}

// refresh pulls the latest snapshot and records a run the first time its
// terminal state is seen.
func (m *Model) refresh() {
	m.snap = m.session.Snapshot()
	m.aimParticles()
	if !m.snap.Status.Terminal() {
		return
	}
	rec, ok := m.session.Record()
	if !ok || rec.ID == m.recordedID {
		return
	}
	m.recordedID = rec.ID
	m.lastRecord = rec
	if m.store == nil {
		return
	}
	if err := m.store.InsertRun(m.ctx, rec); err != nil {
		log.Printf("failed to save run %s: %v", rec.ID, err)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyCtrlS:
		m.session.SetMuted(!m.snap.Muted)
		return nil
	}
	switch m.snap.Status {
	case model.StatusMenu:
		return m.handleMenuKey(msg)
	case model.StatusStory:
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace {
			return m.startLevel()
		}
		if msg.Type == tea.KeyEsc {
			return tea.Quit
		}
	case model.StatusPlaying:
		m.handlePlayingKey(msg)
	case model.StatusGameOver, model.StatusVictory:
		switch msg.String() {
		case "enter", "r":
			m.session.StartGame()
		case "esc", "backspace":
			m.session.ReturnToMenu()
		case "q":
			return tea.Quit
		}
	}
	return nil
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc":
		return tea.Quit
	case "enter", " ":
		m.session.StartGame()
	case "left", "h":
		m.session.SetDifficulty(shiftDifficulty(m.snap.Difficulty, -1))
	case "right", "l", "tab":
		m.session.SetDifficulty(shiftDifficulty(m.snap.Difficulty, 1))
	case "1", "2", "3":
		m.session.SetDifficulty(model.Difficulties[msg.Runes[0]-'1'])
	case "m":
		m.session.SetMuted(!m.snap.Muted)
	}
	return nil
}

func (m *Model) handlePlayingKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyRunes:
		m.session.TypeString(string(msg.Runes))
	case tea.KeyBackspace, tea.KeyDelete:
		m.session.Backspace()
	case tea.KeyEsc, tea.KeyCtrlU:
		m.session.ClearInput()
	}
}

// startLevel loads content off the UI goroutine.
func (m *Model) startLevel() tea.Cmd {
	if m.loading {
		return nil
	}
	m.loading = true
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		return levelLoadedMsg{ok: s.StartLevel(ctx)}
	}
}

func shiftDifficulty(d model.Difficulty, delta int) model.Difficulty {
	n := len(model.Difficulties)
	idx := 0
	for i, v := range model.Difficulties {
		if v == d {
			idx = i
		}
	}
	return model.Difficulties[((idx+delta)%n+n)%n]
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.snap.Status {
	case model.StatusMenu:
		content = m.viewMenu()
	case model.StatusStory:
		content = m.viewStory()
	case model.StatusLoading:
		content = m.viewLoading()
	case model.StatusPlaying:
		content = m.viewPlaying()
	case model.StatusLevelComplete:
		content = m.viewLevelComplete()
	case model.StatusGameOver, model.StatusVictory:
		content = m.viewEnd()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) panelWidth() int {
	if m.width <= 0 {
		return maxPanelWidth
	}
	return max(min(maxPanelWidth, m.width-8), 20)
}

func (m *Model) viewMenu() string {
	buttons := make([]string, 0, len(model.Difficulties))
	for _, d := range model.Difficulties {
		label := difficultyNames[d]
		if d == m.snap.Difficulty {
			buttons = append(buttons, selectedStyle.Render(label))
		} else {
			buttons = append(buttons, unselectedStyle.Render(label))
		}
	}
	lines := []string{
		titleStyle.Render("鍵靈勇者傳"),
		subtitleStyle.Render("Traditional Chinese Typing Roguelike"),
		"",
		subtitleStyle.Render("選擇難度"),
		lipgloss.JoinHorizontal(lipgloss.Top, buttons...),
		"",
		accentStyle.Render("拔劍出征") + footerStyle.Render("  (enter)"),
		"",
		footerStyle.Render("←/→ 難度  m " + muteLabel(m.snap.Muted) + "  q 離開"),
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) viewStory() string {
	width := m.panelWidth()
	body := lipgloss.NewStyle().Width(width - 8).Render(m.snap.Story)
	lines := []string{
		titleStyle.Render(fmt.Sprintf("第 %d 章", m.snap.Level)),
		"",
		body,
		"",
		accentStyle.Render("繼續旅程") + footerStyle.Render("  (enter)"),
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (m *Model) viewLoading() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		m.spinner.View(),
		"",
		titleStyle.Render(m.snap.LoadingText),
	)
}

func (m *Model) viewPlaying() string {
	snap := m.snap
	if snap.Boss == nil {
		return ""
	}
	sections := []string{
		m.renderStatusLine(),
		"",
		m.renderBoss(),
		m.renderCanvas(),
		m.renderChallenge(),
		"",
		m.renderHero(),
		"",
		footerStyle.Render("esc 清除  ctrl+s " + muteLabel(snap.Muted) + "  ctrl+c 離開"),
	}
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if snap.Pulses.Shake {
		content = shiftLines(content, 1+m.frameCount%2)
	}
	return content
}

func (m *Model) renderStatusLine() string {
	snap := m.snap
	parts := []string{
		subtitleStyle.Render(fmt.Sprintf("第 %d/%d 層", snap.Level, snap.MaxLevel)),
		titleStyle.Render(fmt.Sprintf("分數: %d", snap.Score)),
	}
	if snap.Combo > 1 {
		style := subtitleStyle
		if snap.Combo > 2 {
			style = comboStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%d 連擊!", snap.Combo)))
	}
	if snap.ContentFallback {
		parts = append(parts, warnStyle.Render("離線詞庫"))
	}
	return strings.Join(parts, "   ")
}

func (m *Model) renderBoss() string {
	snap := m.snap
	boss := snap.Boss
	if snap.Challenge.Healing {
		return lipgloss.JoinVertical(lipgloss.Center,
			elementStyle(model.ElementHealing).Render("靈力湧現!"),
			healingStyle.Render("魔物暫歇，趁機療傷"),
		)
	}
	nameStyle := elementStyle(boss.Element)
	if snap.Pulses.BossAttacking {
		nameStyle = nameStyle.Reverse(true)
	}
	name := nameStyle.Render(boss.Name) + "  " + subtitleStyle.Render(boss.Title)
	health := m.bossBar.ViewAs(ratio(boss.CurrentHealth, boss.MaxHealth)) +
		fmt.Sprintf(" %d/%d", boss.CurrentHealth, boss.MaxHealth)
	attack := m.attackBar.ViewAs(snap.AttackProgress()) +
		fmt.Sprintf(" %.1fs", snap.NextAttackIn.Seconds())
	lines := []string{name}
	if boss.Description != "" {
		lines = append(lines, subtitleStyle.Italic(true).Render("「"+boss.Description+"」"))
	}
	lines = append(lines, health, attack)
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderCanvas() string {
	snap := m.snap
	c := newCanvas(m.panelWidth(), canvasHeight)
	element := m.canvasElement()
	glyph := element.Glyph()
	style := elementStyle(element)
	if snap.Pulses.BossDamaged {
		style = style.Faint(true)
	}
	c.placeCentered(glyph, style)
	c.plot(m.particles.Snapshot())
	return c.String()
}

// canvasElement is the element whose glyph sits in the middle of the canvas.
func (m *Model) canvasElement() model.Element {
	if m.snap.Challenge.Healing {
		return model.ElementHealing
	}
	return m.snap.Boss.Element
}

// aimParticles points bursts at the centre glyph. During a healing challenge
// they rise from the bottom row, next to the hero panel.
func (m *Model) aimParticles() {
	w := m.panelWidth()
	gw := max(runewidth.StringWidth(m.canvasElement().Glyph()), 1)
	row := canvasHeight / 2
	if m.snap.Challenge.Healing {
		row = canvasHeight - 1
	}
	col := float64((w-gw)/2) + float64(gw)/2
	m.particles.SetOrigin(
		col/float64(w)*particles.CanvasWidth,
		(float64(row)+0.5)/canvasHeight*particles.CanvasHeight,
	)
}

func (m *Model) renderChallenge() string {
	snap := m.snap
	runes := buildStyledRunes([]rune(snap.Challenge.Text), []rune(snap.Input), snap.Challenge.Healing)
	return lipgloss.JoinVertical(lipgloss.Center,
		renderStyledRunes(runes),
		renderInput(snap.Input, snap.Challenge.Healing),
	)
}

func (m *Model) renderHero() string {
	snap := m.snap
	label := "勇者凌風"
	if snap.Pulses.HeroAttacking {
		label += " ⚔"
	}
	style := titleStyle
	if snap.Pulses.BossAttacking {
		style = incorrectStyle
	}
	return style.Render(label) + "  " + m.healthBar.ViewAs(ratio(snap.PlayerHealth, snap.PlayerMaxHealth)) +
		fmt.Sprintf(" %d/%d", snap.PlayerHealth, snap.PlayerMaxHealth)
}

func (m *Model) viewLevelComplete() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		elementStyle(model.ElementWood).Render("封印成功"),
		"",
		subtitleStyle.Render("邪氣消散，準備前往下一層..."),
	)
}

func (m *Model) viewEnd() string {
	rec := m.lastRecord
	headline := titleStyle.Render(stats.Headline(rec.Outcome))
	if rec.Outcome == model.OutcomeVictory {
		headline = elementStyle(model.ElementMetal).Render(stats.Headline(rec.Outcome))
	}
	scores := lipgloss.JoinHorizontal(lipgloss.Top,
		unselectedStyle.Render(fmt.Sprintf("最終得分\n%d", rec.Score)),
		unselectedStyle.Render(fmt.Sprintf("最高連擊\n%d", rec.MaxCombo)),
	)
	bars := stats.BarLines(stats.RunBars(rec), m.panelWidth()-8, true)
	lines := []string{
		headline,
		"",
		scores,
		"",
		strings.Join(bars, "\n"),
		"",
		footerStyle.Render("enter 重頭再來  esc 返回主選單  q 離開"),
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func muteLabel(muted bool) string {
	if muted {
		return "取消靜音"
	}
	return "靜音"
}

func ratio(v, total int) float64 {
	if total <= 0 {
		return 0
	}
	return min(max(float64(v)/float64(total), 0), 1)
}

func shiftLines(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}
