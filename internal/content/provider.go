package content

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/verte-zerg/inkblade/internal/model"
	"github.com/verte-zerg/inkblade/internal/wordlist"
)

// ErrEmptyContent is returned by providers that produced no usable words.
var ErrEmptyContent = errors.New("provider returned no words")

// Content is the per-level material: the boss intro line and the offensive word pool.
type Content struct {
	Intro string
	Words []string
}

// Provider generates level content for an element and difficulty tier.
type Provider interface {
	Generate(ctx context.Context, element model.Element, tier int) (Content, error)
}

// Static serves the built-in tables.
type Static struct{}

// Generate implements Provider.
func (Static) Generate(_ context.Context, element model.Element, _ int) (Content, error) {
	return StaticContent(element), nil
}

// Fetch asks the provider for content and fails closed to the static table.
// The returned flag reports whether the fallback was used.
func Fetch(ctx context.Context, p Provider, element model.Element, tier int) (Content, bool) {
	if p == nil {
		return StaticContent(element), true
	}
	c, err := p.Generate(ctx, element, tier)
	if err == nil {
		c.Words = wordlist.Clean(c.Words, wordlist.ChallengeFilter(wordlist.DefaultMaxRunes))
		if len(c.Words) == 0 {
			err = ErrEmptyContent
		}
	}
	if err != nil {
		log.Printf("content: %s tier %d: %v; using static words", element.Key(), tier, err)
		return StaticContent(element), true
	}
	if strings.TrimSpace(c.Intro) == "" {
		c.Intro = StaticIntro[element]
	}
	return c, false
}
