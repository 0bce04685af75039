package content

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/verte-zerg/inkblade/internal/model"
	"github.com/verte-zerg/inkblade/internal/wordlist"
)

// WordPack reads per-element word lists from a directory, one file per element
// named after the element key (fire.txt, water.txt, ...).
type WordPack struct {
	Dir string
}

// Path returns the word list path for an element.
func (w WordPack) Path(element model.Element) string {
	return filepath.Join(w.Dir, element.Key()+".txt")
}

// Generate implements Provider. The intro is left blank so Fetch fills the static taunt.
func (w WordPack) Generate(_ context.Context, element model.Element, _ int) (Content, error) {
	if w.Dir == "" {
		return Content{}, fmt.Errorf("wordpack directory is not set")
	}
	words, err := wordlist.LoadWords(w.Path(element))
	if err != nil {
		return Content{}, fmt.Errorf("failed to load %s wordpack: %w", element.Key(), err)
	}
	return Content{Words: words}, nil
}
