package session

import (
	"time"

	"github.com/verte-zerg/inkblade/internal/model"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock supplies time and one-shot callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// timerSlot names a timer the session may own.
type timerSlot int

const (
	slotBossAttack timerSlot = iota
	slotLevelAdvance
	slotCount
)

// phaseTimers lists the timers each phase owns; leaving a phase cancels them.
var phaseTimers = map[model.Status][]timerSlot{
	model.StatusPlaying:       {slotBossAttack},
	model.StatusLevelComplete: {slotLevelAdvance},
}

type timerHandle struct {
	id    uint64
	timer Timer
}

// timerTable holds at most one live handle per slot. A callback must claim
// its handle before acting; a handle replaced or cancelled after the
// underlying timer already fired fails the claim.
type timerTable struct {
	seq   uint64
	slots [slotCount]*timerHandle
}

func (t *timerTable) arm(slot timerSlot, clock Clock, d time.Duration, fire func(id uint64)) {
	t.cancel(slot)
	t.seq++
	id := t.seq
	t.slots[slot] = &timerHandle{id: id, timer: clock.AfterFunc(d, func() { fire(id) })}
}

func (t *timerTable) cancel(slot timerSlot) {
	if h := t.slots[slot]; h != nil {
		h.timer.Stop()
		t.slots[slot] = nil
	}
}

func (t *timerTable) cancelAll() {
	for slot := timerSlot(0); slot < slotCount; slot++ {
		t.cancel(slot)
	}
}

func (t *timerTable) armed(slot timerSlot) bool {
	return t.slots[slot] != nil
}

func (t *timerTable) claim(slot timerSlot, id uint64) bool {
	h := t.slots[slot]
	if h == nil || h.id != id {
		return false
	}
	t.slots[slot] = nil
	return true
}
