package stats

import (
	"sort"

	"github.com/verte-zerg/inkblade/internal/model"
)

// TopRuns returns the n best runs by score. Ties go to the higher level,
// then the earlier finish.
func TopRuns(runs []model.RunRecord, n int) []model.RunRecord {
	if n <= 0 || len(runs) == 0 {
		return nil
	}
	items := make([]model.RunRecord, len(runs))
	copy(items, runs)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		if items[i].Level != items[j].Level {
			return items[i].Level > items[j].Level
		}
		return items[i].EndedAt.Before(items[j].EndedAt)
	})
	return items[:min(n, len(items))]
}
