package generator

import "testing"

// scripted replays fixed draws.
type scripted struct {
	floats []float64
	ints   []int
}

func (s *scripted) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scripted) Intn(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

var (
	offensive = []string{"燃燒", "火焰", "星火燎原"}
	healing   = []string{"治癒", "回春"}
)

func TestNextHealingWhenAllowedAndBelowChance(t *testing.T) {
	sel := NewWithSource(&scripted{floats: []float64{0.10}, ints: []int{1}})
	c := sel.Next(offensive, healing, true)
	if !c.Healing || c.Text != "回春" {
		t.Fatalf("expected healing 回春, got %+v", c)
	}
}

func TestNextOffensiveAtChanceBoundary(t *testing.T) {
	sel := NewWithSource(&scripted{floats: []float64{HealingChance}, ints: []int{2}})
	c := sel.Next(offensive, healing, true)
	if c.Healing || c.Text != "星火燎原" {
		t.Fatalf("expected offensive 星火燎原, got %+v", c)
	}
}

func TestNextNeverHealsWhenDisallowed(t *testing.T) {
	// No floats scripted: drawing one would panic.
	sel := NewWithSource(&scripted{ints: []int{0, 1, 2}})
	for i := 0; i < 3; i++ {
		c := sel.Next(offensive, healing, false)
		if c.Healing {
			t.Fatalf("draw %d: healing challenge while disallowed", i)
		}
		if c.Text != offensive[i] {
			t.Fatalf("draw %d: expected %q, got %q", i, offensive[i], c.Text)
		}
	}
}

func TestNextHealingRateApproximatesChance(t *testing.T) {
	sel := NewWithSeed(42)
	const draws = 20000
	heals := 0
	for i := 0; i < draws; i++ {
		if sel.Next(offensive, healing, true).Healing {
			heals++
		}
	}
	rate := float64(heals) / draws
	if rate < 0.13 || rate > 0.17 {
		t.Fatalf("healing rate %.3f outside expected band", rate)
	}
}

func TestNextEmptyPoolPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on empty pool")
		}
	}()
	NewWithSeed(1).Next(nil, healing, false)
}
