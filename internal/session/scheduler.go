package session

import (
	"github.com/verte-zerg/inkblade/internal/combat"
	"github.com/verte-zerg/inkblade/internal/model"
)

// armBossAttack starts a full attack interval. The timer re-arms itself after
// each strike, so the boss fires on a fixed cadence while the phase lasts.
func (s *Session) armBossAttack() {
	if s.boss == nil {
		return
	}
	interval := s.boss.AttackInterval
	s.nextAttackAt = s.clock.Now().Add(interval)
	s.timers.arm(slotBossAttack, s.clock, interval, s.onBossAttack)
}

func (s *Session) onBossAttack(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.timers.claim(slotBossAttack, id) {
		return
	}
	if s.status != model.StatusPlaying || s.challenge.Healing || s.boss == nil {
		return
	}

	now := s.clock.Now()
	s.attackingUntil = now.Add(attackPulse)
	s.shakeUntil = now.Add(shakePulse)
	s.cue(model.CueDamage)
	s.combo = 0

	// boss.Damage already carries the difficulty multiplier.
	health, defeated := combat.ApplyStrike(s.health, s.boss.Damage)
	s.health = health
	if defeated {
		s.enter(model.StatusGameOver)
	} else {
		s.armBossAttack()
	}
	s.publish()
}
