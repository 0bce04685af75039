package historyui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/inkblade/internal/model"
	"github.com/verte-zerg/inkblade/internal/store"
)

func TestParseFilter(t *testing.T) {
	filter, err := parseFilter(" hard ", "2026-02-03", "7")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if filter.Difficulty == nil || *filter.Difficulty != model.DifficultyHard {
		t.Fatalf("expected hard difficulty, got %v", filter.Difficulty)
	}
	if filter.Since == nil || filter.Since.Format("2006-01-02") != "2026-02-03" || filter.Last != 7 {
		t.Fatalf("unexpected filter %+v", filter)
	}

	if _, err := parseFilter("brutal", "", ""); err == nil {
		t.Fatalf("expected error for unknown difficulty")
	}
	if _, err := parseFilter("", "03/02/2026", ""); err == nil {
		t.Fatalf("expected error for bad date")
	}
	if _, err := parseFilter("", "", "-1"); err == nil {
		t.Fatalf("expected error for negative last")
	}
	empty, err := parseFilter("", "", "")
	if err != nil || empty.Difficulty != nil || empty.Since != nil || empty.Last != 0 {
		t.Fatalf("blank inputs should give an empty filter, got %+v %v", empty, err)
	}
}

func TestModelRendersRuns(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "inkblade.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	end := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	if err := st.InsertRun(context.Background(), model.RunRecord{
		ID: "r1", StartedAt: end.Add(-time.Minute), EndedAt: end,
		Difficulty: model.DifficultyNormal, Outcome: model.OutcomeVictory, Level: 5, Score: 4321, MaxCombo: 17,
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	m := NewModel(st, model.HistoryFilter{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := m.View()
	for _, want := range []string{"Overview", "4321", "Top runs", "normal"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in overview:\n%s", want, view)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabRuns {
		t.Fatalf("expected runs tab")
	}
	if !strings.Contains(m.View(), "Difficulty") {
		t.Fatalf("expected run table header")
	}
}

func TestFitLinesPadsAndTrims(t *testing.T) {
	out := fitLines("a\nb\nc", 3, 2)
	if out != "a  \nb  " {
		t.Fatalf("unexpected fit %q", out)
	}
}
