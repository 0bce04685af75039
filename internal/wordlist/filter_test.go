package wordlist

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestChallengeFilter(t *testing.T) {
	filter := ChallengeFilter(4)
	for _, word := range []string{"燃燒", "星火燎原", "fire"} {
		if !filter(word) {
			t.Fatalf("expected %q to pass", word)
		}
	}
	for _, word := range []string{"", "火 焰", "星火燎原啊", "a\tb", "\x01"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestCleanDedupesAndTrims(t *testing.T) {
	got := Clean([]string{" 燃燒 ", "火焰", "燃燒", "", "烈 火"}, ChallengeFilter(0))
	want := []string{"燃燒", "火焰"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLoadWordsSkipsCommentsAndBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fire.txt")
	if err := os.WriteFile(path, []byte("# fire words\n燃燒\n\n  火焰  \n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("load words: %v", err)
	}
	if !reflect.DeepEqual(words, []string{"燃燒", "火焰"}) {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestLoadWordsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("# nothing\n\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	if _, err := LoadWords(path); err == nil {
		t.Fatalf("expected error for empty list")
	}
}

func TestReadWordsStripsBOMAndInlineComments(t *testing.T) {
	words, err := ReadWords(strings.NewReader("\ufeff烈焰 # fire\n寒冰\t\n"))
	if err != nil {
		t.Fatalf("read words: %v", err)
	}
	if !reflect.DeepEqual(words, []string{"烈焰", "寒冰"}) {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestLoadWordsMissingFile(t *testing.T) {
	_, err := LoadWords(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := ReadWords(strings.NewReader("\n")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}
