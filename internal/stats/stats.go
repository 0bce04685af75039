// Package stats contains run metrics and their text rendering.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/inkblade/internal/model"
)

var sparkChars = []rune("▁▂▃▄▅▆▇█")

// Bar is one column of the end-of-run chart, in [0,100].
type Bar struct {
	Label string
	Value float64
}

// RunBars computes the end-of-run chart: level progress, combo and total.
func RunBars(run model.RunRecord) []Bar {
	progress := 0.0
	if run.Level > 0 {
		progress = float64(run.Score) / float64(run.Level*1000) * 100
	}
	return []Bar{
		{Label: "進度", Value: clampPct(progress)},
		{Label: "連擊", Value: clampPct(float64(run.MaxCombo) * 10)},
		{Label: "總分", Value: clampPct(math.Min(float64(run.Score)/10, 100))},
	}
}

// Headline is the end screen title for a run outcome.
func Headline(outcome model.Outcome) string {
	if outcome == model.OutcomeVictory {
		return "玄華界・救贖"
	}
	return "勝敗乃兵家常事"
}

func clampPct(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// Summary aggregates a list of runs.
type Summary struct {
	Runs      int
	Victories int
	BestScore int
	AvgScore  float64
	AvgLevel  float64
	BestCombo int
}

// WinRate returns the fraction of runs won.
func (s Summary) WinRate() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.Victories) / float64(s.Runs)
}

// Summarize aggregates runs.
func Summarize(runs []model.RunRecord) Summary {
	var sum Summary
	if len(runs) == 0 {
		return sum
	}
	var totalScore, totalLevel int
	for _, r := range runs {
		sum.Runs++
		if r.Outcome == model.OutcomeVictory {
			sum.Victories++
		}
		sum.BestScore = max(sum.BestScore, r.Score)
		sum.BestCombo = max(sum.BestCombo, r.MaxCombo)
		totalScore += r.Score
		totalLevel += r.Level
	}
	sum.AvgScore = float64(totalScore) / float64(sum.Runs)
	sum.AvgLevel = float64(totalLevel) / float64(sum.Runs)
	return sum
}

// ByDifficulty groups summaries per difficulty, skipping tiers with no runs.
func ByDifficulty(runs []model.RunRecord) map[model.Difficulty]Summary {
	groups := map[model.Difficulty][]model.RunRecord{}
	for _, r := range runs {
		groups[r.Difficulty] = append(groups[r.Difficulty], r)
	}
	out := make(map[model.Difficulty]Summary, len(groups))
	for d, rs := range groups {
		out[d] = Summarize(rs)
	}
	return out
}

// Scores extracts run scores in order.
func Scores(runs []model.RunRecord) []float64 {
	out := make([]float64, len(runs))
	for i, r := range runs {
		out[i] = float64(r.Score)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line block sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	top := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(top)))
		b.WriteRune(sparkChars[min(max(idx, 0), top)])
	}
	return b.String()
}

// RenderSummary prints aggregate numbers and a score sparkline.
func RenderSummary(w io.Writer, runs []model.RunRecord) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	sum := Summarize(runs)
	lines := []string{
		"Summary",
		fmt.Sprintf("Runs: %d", sum.Runs),
		fmt.Sprintf("Victories: %d (%.0f%%)", sum.Victories, sum.WinRate()*100),
		fmt.Sprintf("Best score: %d", sum.BestScore),
		fmt.Sprintf("Avg score: %.1f", sum.AvgScore),
		fmt.Sprintf("Avg level reached: %.2f", sum.AvgLevel),
		fmt.Sprintf("Best combo: %d", sum.BestCombo),
		"Scores: " + Sparkline(Scores(runs)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderRunTable prints one row per run.
func RenderRunTable(w io.Writer, runs []model.RunRecord) error {
	if len(runs) == 0 {
		return nil
	}
	headers := []string{"Ended", "Difficulty", "Outcome", "Level", "Score", "Combo", "HP"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, RunRow(r))
	}
	rightAlign := map[int]bool{3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RunRow formats a run as table cells.
func RunRow(r model.RunRecord) []string {
	return []string{
		r.EndedAt.Local().Format("2006-01-02 15:04"),
		r.Difficulty.String(),
		OutcomeLabel(r.Outcome),
		fmt.Sprintf("%d", r.Level),
		fmt.Sprintf("%d", r.Score),
		fmt.Sprintf("%d", r.MaxCombo),
		fmt.Sprintf("%d", r.PlayerHealth),
	}
}

// OutcomeLabel is the short outcome label used in tables.
func OutcomeLabel(o model.Outcome) string {
	if o == model.OutcomeVictory {
		return "勝 victory"
	}
	return "敗 defeat"
}
