package session

import (
	"time"

	"github.com/verte-zerg/inkblade/internal/combat"
	"github.com/verte-zerg/inkblade/internal/content"
	"github.com/verte-zerg/inkblade/internal/model"
)

// Pulses are short-lived visual flags that expire on their own.
type Pulses struct {
	BossAttacking bool `json:"bossAttacking"`
	Shake         bool `json:"shake"`
	BossDamaged   bool `json:"bossDamaged"`
	HeroAttacking bool `json:"heroAttacking"`
}

// Snapshot is a read-only copy of the session for presentation.
type Snapshot struct {
	RunID           string           `json:"runId,omitempty"`
	Status          model.Status     `json:"status"`
	Difficulty      model.Difficulty `json:"difficulty"`
	Level           int              `json:"level"`
	MaxLevel        int              `json:"maxLevel"`
	Score           int              `json:"score"`
	Combo           int              `json:"combo"`
	MaxCombo        int              `json:"maxCombo"`
	PlayerHealth    int              `json:"playerHealth"`
	PlayerMaxHealth int              `json:"playerMaxHealth"`
	Boss            *model.Boss      `json:"boss,omitempty"`
	Challenge       model.Challenge  `json:"challenge"`
	Input           string           `json:"input"`
	Story           string           `json:"story,omitempty"`
	LoadingText     string           `json:"loadingText,omitempty"`
	ContentFallback bool             `json:"contentFallback"`
	NextAttackIn    time.Duration    `json:"nextAttackIn"`
	Pulses          Pulses           `json:"pulses"`
	Muted           bool             `json:"muted"`
	At              time.Time        `json:"at"`
}

// AttackProgress returns how far the boss timer has run, in [0,1].
// It is zero while the timer is suspended.
func (s Snapshot) AttackProgress() float64 {
	if s.Boss == nil || s.NextAttackIn <= 0 || s.Boss.AttackInterval <= 0 {
		return 0
	}
	p := 1 - float64(s.NextAttackIn)/float64(s.Boss.AttackInterval)
	return min(max(p, 0), 1)
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	now := s.clock.Now()
	snap := Snapshot{
		RunID:           s.runID,
		Status:          s.status,
		Difficulty:      s.difficulty,
		Level:           s.level,
		MaxLevel:        content.MaxLevel,
		Score:           s.score,
		Combo:           s.combo,
		MaxCombo:        s.maxCombo,
		PlayerHealth:    s.health,
		PlayerMaxHealth: combat.PlayerMaxHealth,
		Challenge:       s.challenge,
		Input:           string(s.input),
		Story:           s.story,
		LoadingText:     s.loadingText,
		ContentFallback: s.fallback,
		Pulses: Pulses{
			BossAttacking: now.Before(s.attackingUntil),
			Shake:         now.Before(s.shakeUntil),
			BossDamaged:   now.Before(s.bossHitUntil),
			HeroAttacking: now.Before(s.heroStrikeUntil),
		},
		Muted: s.muted,
		At:    now,
	}
	if s.boss != nil {
		boss := *s.boss
		boss.CurrentHealth = boss.DisplayHealth()
		snap.Boss = &boss
	}
	if s.timers.armed(slotBossAttack) {
		snap.NextAttackIn = max(s.nextAttackAt.Sub(now), 0)
	}
	return snap
}
