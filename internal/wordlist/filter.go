// Package wordlist provides word list filtering helpers.
package wordlist

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxRunes bounds the length of a single challenge.
const DefaultMaxRunes = 12

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// ChallengeFilter keeps words that fit on one line and contain no whitespace or control runes.
func ChallengeFilter(maxRunes int) FilterFunc {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxRunes
	}
	return func(word string) bool {
		if word == "" || !utf8.ValidString(word) {
			return false
		}
		if utf8.RuneCountInString(word) > maxRunes {
			return false
		}
		for _, r := range word {
			if unicode.IsSpace(r) || unicode.IsControl(r) {
				return false
			}
		}
		return true
	}
}

// Clean trims, filters and de-duplicates words, preserving first-seen order.
func Clean(words []string, keep FilterFunc) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.TrimSpace(word)
		if keep != nil && !keep(word) {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	return out
}
