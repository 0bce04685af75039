// Package generator picks the next typing challenge.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/inkblade/internal/model"
)

// HealingChance is the probability of drawing a healing challenge when one is allowed.
const HealingChance = 0.15

// Source is the randomness a Selector draws from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Selector chooses challenges from word pools.
type Selector struct {
	rnd Source
}

// New returns a Selector seeded with the current time.
func New() *Selector {
	return &Selector{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithSeed returns a deterministic Selector.
func NewWithSeed(seed int64) *Selector {
	return &Selector{rnd: rand.New(rand.NewSource(seed))}
}

// NewWithSource returns a Selector backed by the given source.
func NewWithSource(src Source) *Selector {
	return &Selector{rnd: src}
}

// Next draws a healing challenge with probability HealingChance when allowHealing
// is set, otherwise an offensive one. Both draws are uniform over their pool.
// The chosen pool must be non-empty.
func (s *Selector) Next(pool, healingPool []string, allowHealing bool) model.Challenge {
	if allowHealing && s.rnd.Float64() < HealingChance {
		return model.Challenge{Text: pick(s.rnd, healingPool, "healing"), Healing: true}
	}
	return model.Challenge{Text: pick(s.rnd, pool, "offensive")}
}

func pick(rnd Source, words []string, kind string) string {
	if len(words) == 0 {
		panic("generator: empty " + kind + " pool")
	}
	return words[rnd.Intn(len(words))]
}
