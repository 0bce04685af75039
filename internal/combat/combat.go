// Package combat resolves challenge outcomes and boss stats.
package combat

import (
	"math"
	"time"

	"github.com/verte-zerg/inkblade/internal/model"
)

const (
	BaseAttackDamage = 20
	ComboScalar      = 2
	ScorePerDamage   = 10
	HealAmount       = 15
	PlayerMaxHealth  = 100

	BaseAttackInterval = 5000 * time.Millisecond
	AttackIntervalStep = 500 * time.Millisecond
	MinAttackInterval  = 1500 * time.Millisecond
	LevelCompleteDelay = 3000 * time.Millisecond

	baseBossHealth     = 100
	bossHealthPerLevel = 50
	baseBossDamage     = 10
	bossDamagePerLevel = 2
)

// OffensiveResult is the effect of a completed offensive challenge.
type OffensiveResult struct {
	Damage        int
	NewBossHealth int
	ComboAfter    int
	ScoreDelta    int
	LevelCleared  bool
}

// ResolveOffensive computes the hit dealt by an offensive challenge.
// NewBossHealth may be negative; display code clamps it.
func ResolveOffensive(boss model.Boss, comboBefore int) OffensiveResult {
	if comboBefore < 0 {
		comboBefore = 0
	}
	damage := BaseAttackDamage + comboBefore*ComboScalar
	health := boss.CurrentHealth - damage
	return OffensiveResult{
		Damage:        damage,
		NewBossHealth: health,
		ComboAfter:    comboBefore + 1,
		ScoreDelta:    damage * ScorePerDamage,
		LevelCleared:  health <= 0,
	}
}

// ResolveHealing returns the player health after a healing challenge.
func ResolveHealing(playerHealth int) int {
	return min(playerHealth+HealAmount, PlayerMaxHealth)
}

// ApplyStrike deals boss damage to the player, clamping at zero.
func ApplyStrike(playerHealth, damage int) (newHealth int, defeated bool) {
	newHealth = playerHealth - damage
	if newHealth <= 0 {
		return 0, true
	}
	return newHealth, false
}

// AttackInterval returns the boss cadence for a level:
// max(MinAttackInterval, BaseAttackInterval - level*AttackIntervalStep) scaled by speed.
func AttackInterval(level int, settings model.DifficultySettings) time.Duration {
	base := max(MinAttackInterval, BaseAttackInterval-time.Duration(level)*AttackIntervalStep)
	ms := math.Round(float64(base.Milliseconds()) * settings.SpeedMultiplier)
	return time.Duration(ms) * time.Millisecond
}

// NewBoss builds the boss for a level. The damage multiplier is applied here
// to both health and per-hit damage; nothing downstream applies it again.
func NewBoss(cfg model.LevelConfig, settings model.DifficultySettings, intro string) model.Boss {
	level := cfg.Number
	health := scale(baseBossHealth+level*bossHealthPerLevel, settings.DamageMultiplier)
	return model.Boss{
		Name:           cfg.BossName,
		Title:          cfg.Element.Glyph() + "之魔",
		Element:        cfg.Element,
		MaxHealth:      health,
		CurrentHealth:  health,
		AttackInterval: AttackInterval(level, settings),
		Damage:         scale(baseBossDamage+level*bossDamagePerLevel, settings.DamageMultiplier),
		Description:    intro,
	}
}

func scale(v int, mult float64) int {
	return int(math.Round(float64(v) * mult))
}
