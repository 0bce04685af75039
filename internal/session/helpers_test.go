package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/verte-zerg/inkblade/internal/content"
	"github.com/verte-zerg/inkblade/internal/generator"
	"github.com/verte-zerg/inkblade/internal/model"
	"github.com/verte-zerg/inkblade/internal/particles"
)

type fakeTimer struct {
	clock *fakeClock
	at    time.Time
	f     func()
	done  bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// fakeClock fires timers synchronously from Advance, in deadline order.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if t.done || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			break
		}
		next.done = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

func (c *fakeClock) last() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers[len(c.timers)-1]
}

// scriptedSource replays healing rolls; once exhausted every roll is offensive.
type scriptedSource struct {
	mu     sync.Mutex
	floats []float64
}

func (s *scriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) Intn(int) int { return 0 }

func (s *scriptedSource) remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.floats)
}

type fixedProvider struct {
	words []string
	err   error
}

func (p fixedProvider) Generate(context.Context, model.Element, int) (content.Content, error) {
	if p.err != nil {
		return content.Content{}, p.err
	}
	return content.Content{Intro: "來吧", Words: p.words}, nil
}

type cueLog struct {
	mu    sync.Mutex
	cues  []model.Cue
	muted []bool
}

func (c *cueLog) Cue(cue model.Cue, muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cues = append(c.cues, cue)
	c.muted = append(c.muted, muted)
}

func (c *cueLog) count(cue model.Cue) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.cues {
		if v == cue {
			n++
		}
	}
	return n
}

type burstLog struct {
	mu    sync.Mutex
	kinds []particles.Kind
}

func (b *burstLog) Burst(kind particles.Kind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.kinds = append(b.kinds, kind)
}

type snapLog struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (l *snapLog) Observe(s Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snaps = append(l.snaps, s)
}

type harness struct {
	s      *Session
	clock  *fakeClock
	src    *scriptedSource
	cues   *cueLog
	bursts *burstLog
	snaps  *snapLog
}

func newHarness(t *testing.T, difficulty model.Difficulty, floats ...float64) *harness {
	t.Helper()
	h := &harness{
		clock:  newFakeClock(),
		src:    &scriptedSource{floats: floats},
		cues:   &cueLog{},
		bursts: &burstLog{},
		snaps:  &snapLog{},
	}
	runs := 0
	h.s = New(Options{
		Difficulty: difficulty,
		Provider:   fixedProvider{words: []string{"ab", "cd"}},
		Selector:   generator.NewWithSource(h.src),
		Clock:      h.clock,
		Particles:  h.bursts,
		Cues:       h.cues,
		Observers:  []Observer{h.snaps},
		NewRunID: func() string {
			runs++
			return "run-" + string(rune('0'+runs))
		},
	})
	t.Cleanup(h.s.Close)
	return h
}

// playing starts a run and enters level 1 combat.
func (h *harness) playing(t *testing.T) {
	t.Helper()
	if !h.s.StartGame() {
		t.Fatalf("StartGame refused")
	}
	if !h.s.StartLevel(context.Background()) {
		t.Fatalf("StartLevel refused")
	}
	if st := h.s.Snapshot().Status; st != model.StatusPlaying {
		t.Fatalf("expected PLAYING, got %s", st)
	}
}

func (h *harness) typeChallenge(t *testing.T) {
	t.Helper()
	text := h.s.Snapshot().Challenge.Text
	if !h.s.TypeString(text) {
		t.Fatalf("typing %q was rejected", text)
	}
}

func (h *harness) set(f func(s *Session)) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	f(h.s)
}
