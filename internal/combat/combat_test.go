package combat

import (
	"testing"
	"time"

	"github.com/verte-zerg/inkblade/internal/model"
)

var normal = model.DifficultySettings{SpeedMultiplier: 1.0, DamageMultiplier: 1.0}

func TestResolveOffensiveDamageGrowsWithCombo(t *testing.T) {
	boss := model.Boss{MaxHealth: 10000, CurrentHealth: 10000}
	prev := 0
	for combo := 0; combo < 50; combo++ {
		res := ResolveOffensive(boss, combo)
		if res.Damage != 20+2*combo {
			t.Fatalf("combo %d: expected damage %d, got %d", combo, 20+2*combo, res.Damage)
		}
		if res.Damage <= prev {
			t.Fatalf("combo %d: damage %d not above %d", combo, res.Damage, prev)
		}
		if res.ComboAfter != combo+1 {
			t.Fatalf("combo %d: expected combo after %d, got %d", combo, combo+1, res.ComboAfter)
		}
		if res.ScoreDelta != res.Damage*10 {
			t.Fatalf("combo %d: expected score %d, got %d", combo, res.Damage*10, res.ScoreDelta)
		}
		prev = res.Damage
	}
}

func TestResolveOffensiveFirstHit(t *testing.T) {
	res := ResolveOffensive(model.Boss{MaxHealth: 150, CurrentHealth: 150}, 0)
	want := OffensiveResult{Damage: 20, NewBossHealth: 130, ComboAfter: 1, ScoreDelta: 200}
	if res != want {
		t.Fatalf("expected %+v, got %+v", want, res)
	}
}

func TestResolveOffensiveClears(t *testing.T) {
	boss := model.Boss{MaxHealth: 150, CurrentHealth: 15}
	res := ResolveOffensive(boss, 3)
	if res.Damage != 26 {
		t.Fatalf("expected damage 26, got %d", res.Damage)
	}
	if !res.LevelCleared || res.NewBossHealth > 0 {
		t.Fatalf("expected clear, got %+v", res)
	}
	boss.CurrentHealth = res.NewBossHealth
	if boss.DisplayHealth() != 0 {
		t.Fatalf("expected display health 0, got %d", boss.DisplayHealth())
	}
}

func TestResolveHealingCaps(t *testing.T) {
	cases := map[int]int{0: 15, 10: 25, 85: 100, 90: 100, 100: 100}
	for in, want := range cases {
		if got := ResolveHealing(in); got != want {
			t.Fatalf("heal %d: expected %d, got %d", in, want, got)
		}
	}
}

func TestApplyStrikeClamps(t *testing.T) {
	h, dead := ApplyStrike(10, 15)
	if h != 0 || !dead {
		t.Fatalf("expected 0/dead, got %d/%v", h, dead)
	}
	h, dead = ApplyStrike(50, 12)
	if h != 38 || dead {
		t.Fatalf("expected 38/alive, got %d/%v", h, dead)
	}
	h, dead = ApplyStrike(12, 12)
	if h != 0 || !dead {
		t.Fatalf("expected exact kill, got %d/%v", h, dead)
	}
}

func TestAttackInterval(t *testing.T) {
	cases := []struct {
		level    int
		speed    float64
		expected time.Duration
	}{
		{1, 1.0, 4500 * time.Millisecond},
		{5, 1.0, 2500 * time.Millisecond},
		{1, 1.5, 6750 * time.Millisecond},
		{5, 0.7, 1750 * time.Millisecond},
		{9, 1.0, 1500 * time.Millisecond},
		{20, 1.0, 1500 * time.Millisecond},
	}
	for _, tc := range cases {
		got := AttackInterval(tc.level, model.DifficultySettings{SpeedMultiplier: tc.speed})
		if got != tc.expected {
			t.Fatalf("level %d speed %.1f: expected %s, got %s", tc.level, tc.speed, tc.expected, got)
		}
	}
}

func TestNewBossAppliesMultiplierOnce(t *testing.T) {
	cfg := model.LevelConfig{Number: 2, Element: model.ElementWater, BossName: "深淵漩渦"}
	boss := NewBoss(cfg, model.DifficultySettings{SpeedMultiplier: 0.7, DamageMultiplier: 1.5}, "intro")
	if boss.MaxHealth != 300 || boss.CurrentHealth != 300 {
		t.Fatalf("expected 300 health, got %d/%d", boss.CurrentHealth, boss.MaxHealth)
	}
	if boss.Damage != 21 {
		t.Fatalf("expected damage 21, got %d", boss.Damage)
	}
	if boss.AttackInterval != 2800*time.Millisecond {
		t.Fatalf("expected 2.8s interval, got %s", boss.AttackInterval)
	}
	if boss.Title != "水之魔" || boss.Description != "intro" {
		t.Fatalf("unexpected title/description %q/%q", boss.Title, boss.Description)
	}
}

func TestNewBossLevelOneNormal(t *testing.T) {
	boss := NewBoss(model.LevelConfig{Number: 1, Element: model.ElementFire}, normal, "")
	if boss.MaxHealth != 150 || boss.Damage != 12 || boss.AttackInterval != 4500*time.Millisecond {
		t.Fatalf("unexpected level 1 boss %+v", boss)
	}
}
