// Package particles simulates the short-lived feedback tokens shown when a
// challenge resolves. Particles never influence gameplay.
package particles

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

const (
	Gravity = 0.5
	Decay   = 0.02

	// DefaultLimit caps the live set so a burst storm cannot grow without bound.
	DefaultLimit = 512

	// Canvas is the virtual coordinate space; renderers scale it to their surface.
	CanvasWidth  = 800.0
	CanvasHeight = 600.0

	spawnSpread = 100.0
)

// Kind selects a burst preset.
type Kind int

const (
	KindStrike Kind = iota
	KindHeal
)

// Particle is one visual token.
type Particle struct {
	ID    uint64
	X, Y  float64
	VX    float64
	VY    float64
	Life  float64
	Color string
	Glyph string
}

type preset struct {
	count  int
	life   float64
	speedX float64
	speedY float64
	color  string
	glyphs []string
}

var presets = map[Kind]preset{
	KindStrike: {count: 5, life: 1.0, speedX: 15, speedY: 15, color: "#FFD700", glyphs: []string{"✦", "⚔", "✸"}},
	KindHeal:   {count: 8, life: 1.2, speedX: 10, speedY: 10, color: "#34D399", glyphs: []string{"+"}},
}

// Simulator owns the live particle set. It has its own lock and is safe for
// concurrent Burst, Step and Snapshot calls.
type Simulator struct {
	mu      sync.Mutex
	items   []Particle
	nextID  uint64
	limit   int
	rnd     *rand.Rand
	originX float64
	originY float64
}

// New returns a simulator centred on the canvas. limit <= 0 selects DefaultLimit.
func New(limit int, seed int64) *Simulator {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		limit:   limit,
		rnd:     rand.New(rand.NewSource(seed)),
		originX: CanvasWidth / 2,
		originY: CanvasHeight / 2,
	}
}

// SetOrigin moves the spawn point, in canvas coordinates.
func (s *Simulator) SetOrigin(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.originX = x
	s.originY = y
}

// Burst spawns a preset fan of particles around the origin. Tokens past the
// limit are dropped.
func (s *Simulator) Burst(kind Kind) {
	p, ok := presets[kind]
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < p.count && len(s.items) < s.limit; i++ {
		s.nextID++
		s.items = append(s.items, Particle{
			ID:    s.nextID,
			X:     s.originX + (s.rnd.Float64()-0.5)*spawnSpread,
			Y:     s.originY,
			VX:    (s.rnd.Float64() - 0.5) * p.speedX,
			VY:    (s.rnd.Float64() - 1) * p.speedY,
			Life:  p.life,
			Color: p.color,
			Glyph: p.glyphs[s.rnd.Intn(len(p.glyphs))],
		})
	}
}

// Step advances every particle by one frame and swap-removes expired ones.
func (s *Simulator) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < len(s.items); {
		p := &s.items[i]
		p.X += p.VX
		p.Y += p.VY
		p.VY += Gravity
		p.Life -= Decay
		if p.Life <= 0 {
			last := len(s.items) - 1
			s.items[i] = s.items[last]
			s.items = s.items[:last]
			continue
		}
		i++
	}
}

// Snapshot returns a copy of the live particles.
func (s *Simulator) Snapshot() []Particle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Particle(nil), s.items...)
}

// Len returns the number of live particles.
func (s *Simulator) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Run steps the simulation once per frame until ctx is done. It is for
// headless use; the TUI steps the simulator from its own frame tick instead.
func (s *Simulator) Run(ctx context.Context, frame time.Duration) {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Step()
		}
	}
}
