// Package session runs the combat state machine: level progression, the
// boss attack timer, challenge resolution and terminal conditions.
//
// Every trigger (keystroke, boss timer, level-advance timer, content load)
// enters through a method that holds the session lock for the whole
// transition, so events are applied atomically in arrival order.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/inkblade/internal/combat"
	"github.com/verte-zerg/inkblade/internal/content"
	"github.com/verte-zerg/inkblade/internal/generator"
	"github.com/verte-zerg/inkblade/internal/model"
	"github.com/verte-zerg/inkblade/internal/particles"
)

const (
	attackPulse     = 500 * time.Millisecond
	shakePulse      = 300 * time.Millisecond
	bossHitPulse    = 200 * time.Millisecond
	heroStrikePulse = 300 * time.Millisecond
)

// Observer receives a snapshot after every state change. Observe is called
// with the session lock held: it must not block or call back into the session.
type Observer interface {
	Observe(Snapshot)
}

// CueSink plays audio cues. The mute flag is passed through untouched.
type CueSink interface {
	Cue(c model.Cue, muted bool)
}

// Spawner receives particle burst requests.
type Spawner interface {
	Burst(kind particles.Kind)
}

// Options configures a Session. Zero values select defaults.
type Options struct {
	Difficulty model.Difficulty
	Provider   content.Provider
	Selector   *generator.Selector
	Clock      Clock
	Particles  Spawner
	Cues       CueSink
	Observers  []Observer
	Muted      bool
	NewRunID   func() string
}

// Session is the single mutable root of a game.
type Session struct {
	mu sync.Mutex

	provider  content.Provider
	selector  *generator.Selector
	clock     Clock
	spawner   Spawner
	cues      CueSink
	observers []Observer
	newRunID  func() string
	healing   []string

	status     model.Status
	difficulty model.Difficulty
	muted      bool

	runID     string
	startedAt time.Time
	endedAt   time.Time
	epoch     uint64

	level    int
	score    int
	combo    int
	maxCombo int
	health   int

	boss         *model.Boss
	pool         []string
	challenge    model.Challenge
	input        []rune
	story        string
	loadingText  string
	fallback     bool
	nextAttackAt time.Time

	attackingUntil  time.Time
	shakeUntil      time.Time
	bossHitUntil    time.Time
	heroStrikeUntil time.Time

	timers timerTable
}

// New returns a session in the menu.
func New(opts Options) *Session {
	s := &Session{
		provider:   opts.Provider,
		selector:   opts.Selector,
		clock:      opts.Clock,
		spawner:    opts.Particles,
		cues:       opts.Cues,
		observers:  opts.Observers,
		newRunID:   opts.NewRunID,
		healing:    content.HealingWords(),
		status:     model.StatusMenu,
		difficulty: opts.Difficulty,
		muted:      opts.Muted,
		level:      1,
		health:     combat.PlayerMaxHealth,
	}
	if s.provider == nil {
		s.provider = content.Static{}
	}
	if s.selector == nil {
		s.selector = generator.New()
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.newRunID == nil {
		s.newRunID = uuid.NewString
	}
	return s
}

// AddObserver registers a presentation sink.
func (s *Session) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// SetDifficulty changes the tier. Only allowed in the menu.
func (s *Session) SetDifficulty(d model.Difficulty) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != model.StatusMenu {
		return false
	}
	s.difficulty = d
	s.publish()
	return true
}

// SetMuted records the mute toggle forwarded with every cue.
func (s *Session) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
	s.publish()
}

// StartGame resets the run and enters the first story screen.
func (s *Session) StartGame() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.status {
	case model.StatusMenu, model.StatusGameOver, model.StatusVictory:
	default:
		return false
	}
	s.epoch++
	s.runID = s.newRunID()
	s.startedAt = s.clock.Now()
	s.endedAt = time.Time{}
	s.score = 0
	s.combo = 0
	s.maxCombo = 0
	s.health = combat.PlayerMaxHealth
	s.level = 1
	s.boss = nil
	s.pool = nil
	s.challenge = model.Challenge{}
	s.clearPulses()
	s.prepareStory()
	s.publish()
	return true
}

// StartLevel loads the current level's content and begins combat. The
// content provider is called without the lock held; it always succeeds
// because failures fall back to the static tables.
func (s *Session) StartLevel(ctx context.Context) bool {
	s.mu.Lock()
	if s.status != model.StatusStory {
		s.mu.Unlock()
		return false
	}
	s.enter(model.StatusLoading)
	s.loadingText = fmt.Sprintf("召喚第 %d 層守護者...", s.level)
	epoch := s.epoch
	cfg := content.Level(s.level)
	settings := content.Settings(s.difficulty)
	provider := s.provider
	s.publish()
	s.mu.Unlock()

	c, fallback := content.Fetch(ctx, provider, cfg.Element, cfg.Tier)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.status != model.StatusLoading {
		return false
	}
	boss := combat.NewBoss(cfg, settings, c.Intro)
	s.boss = &boss
	s.pool = c.Words
	s.fallback = fallback
	s.enter(model.StatusPlaying)
	s.setChallenge(s.selector.Next(s.pool, s.healing, false))
	s.publish()
	return true
}

// Type feeds one keystroke to the active challenge.
func (s *Session) Type(r rune) bool {
	return s.TypeString(string(r))
}

// TypeString feeds keystrokes in order. Input is only accepted while
// playing; a partial prefix stays pending and an exact match resolves the
// challenge immediately and clears the input.
func (s *Session) TypeString(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != model.StatusPlaying {
		return false
	}
	accepted := false
	for _, r := range text {
		if s.status != model.StatusPlaying {
			break
		}
		if len(s.input) >= len([]rune(s.challenge.Text)) {
			break
		}
		s.input = append(s.input, r)
		accepted = true
		s.cue(model.CueType)
		if string(s.input) == s.challenge.Text {
			s.input = nil
			s.resolve()
		}
	}
	if accepted {
		s.publish()
	}
	return accepted
}

// Backspace removes the last pending rune.
func (s *Session) Backspace() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != model.StatusPlaying || len(s.input) == 0 {
		return false
	}
	s.input = s.input[:len(s.input)-1]
	s.publish()
	return true
}

// ClearInput drops all pending input.
func (s *Session) ClearInput() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != model.StatusPlaying || len(s.input) == 0 {
		return false
	}
	s.input = nil
	s.publish()
	return true
}

// ReturnToMenu leaves a finished run.
func (s *Session) ReturnToMenu() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.status.Terminal() {
		return false
	}
	s.epoch++
	s.enter(model.StatusMenu)
	s.publish()
	return true
}

// Record returns the summary of the current run once it has ended.
func (s *Session) Record() (model.RunRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.status.Terminal() {
		return model.RunRecord{}, false
	}
	outcome := model.OutcomeDefeat
	if s.status == model.StatusVictory {
		outcome = model.OutcomeVictory
	}
	return model.RunRecord{
		ID:           s.runID,
		StartedAt:    s.startedAt,
		EndedAt:      s.endedAt,
		Difficulty:   s.difficulty,
		Outcome:      outcome,
		Level:        s.level,
		Score:        s.score,
		MaxCombo:     s.maxCombo,
		PlayerHealth: s.health,
	}, true
}

// Close cancels every pending timer. The session stays readable.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.timers.cancelAll()
}

// enter switches phase, cancelling the timers owned by the phase being left.
func (s *Session) enter(next model.Status) {
	for _, slot := range phaseTimers[s.status] {
		s.timers.cancel(slot)
	}
	s.status = next
	s.input = nil
	if next.Terminal() {
		s.endedAt = s.clock.Now()
	}
}

func (s *Session) prepareStory() {
	s.story = content.Level(s.level).StoryText
	s.enter(model.StatusStory)
}

// setChallenge installs the next challenge and applies the suspension rule:
// a healing challenge stops the boss timer, and the first offensive
// challenge after it restarts the timer from a full interval.
func (s *Session) setChallenge(c model.Challenge) {
	wasHealing := s.challenge.Healing
	s.challenge = c
	s.input = nil
	if c.Healing {
		s.timers.cancel(slotBossAttack)
		return
	}
	if wasHealing || !s.timers.armed(slotBossAttack) {
		s.armBossAttack()
	}
}

func (s *Session) resolve() {
	if s.challenge.Healing {
		s.resolveHealing()
		return
	}
	s.resolveOffensive()
}

func (s *Session) resolveHealing() {
	s.cue(model.CueVictory)
	s.burst(particles.KindHeal)
	s.health = combat.ResolveHealing(s.health)
	s.setChallenge(s.selector.Next(s.pool, s.healing, false))
}

func (s *Session) resolveOffensive() {
	now := s.clock.Now()
	s.cue(model.CueAttack)
	s.bossHitUntil = now.Add(bossHitPulse)
	s.heroStrikeUntil = now.Add(heroStrikePulse)
	s.burst(particles.KindStrike)

	res := combat.ResolveOffensive(*s.boss, s.combo)
	s.combo = res.ComboAfter
	s.maxCombo = max(s.maxCombo, s.combo)
	s.score += res.ScoreDelta
	s.boss.CurrentHealth = res.NewBossHealth
	if !res.LevelCleared {
		s.setChallenge(s.selector.Next(s.pool, s.healing, true))
		return
	}

	s.cue(model.CueVictory)
	if s.level >= content.MaxLevel {
		s.enter(model.StatusVictory)
		return
	}
	s.enter(model.StatusLevelComplete)
	s.timers.arm(slotLevelAdvance, s.clock, combat.LevelCompleteDelay, s.onLevelAdvance)
}

func (s *Session) onLevelAdvance(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.timers.claim(slotLevelAdvance, id) || s.status != model.StatusLevelComplete {
		return
	}
	s.level++
	s.prepareStory()
	s.publish()
}

func (s *Session) cue(c model.Cue) {
	if s.cues != nil {
		s.cues.Cue(c, s.muted)
	}
}

func (s *Session) burst(kind particles.Kind) {
	if s.spawner != nil {
		s.spawner.Burst(kind)
	}
}

func (s *Session) clearPulses() {
	s.attackingUntil = time.Time{}
	s.shakeUntil = time.Time{}
	s.bossHitUntil = time.Time{}
	s.heroStrikeUntil = time.Time{}
}

func (s *Session) publish() {
	if len(s.observers) == 0 {
		return
	}
	snap := s.snapshot()
	for _, o := range s.observers {
		o.Observe(snap)
	}
}
