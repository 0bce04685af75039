package stats

import (
	"context"

	"github.com/verte-zerg/inkblade/internal/model"
	"github.com/verte-zerg/inkblade/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Runs         []model.RunRecord
	Summary      Summary
	ByDifficulty map[model.Difficulty]Summary
	Top          []model.RunRecord
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st *store.Store, filter model.HistoryFilter, top int) (Report, error) {
	runs, err := st.ListRuns(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Runs:         runs,
		Summary:      Summarize(runs),
		ByDifficulty: ByDifficulty(runs),
		Top:          TopRuns(runs, top),
	}, nil
}
