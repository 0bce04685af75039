package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/inkblade/internal/combat"
	"github.com/verte-zerg/inkblade/internal/content"
	"github.com/verte-zerg/inkblade/internal/model"
)

// LevelRows describes every level's boss at the given difficulty.
func LevelRows(d model.Difficulty) [][]string {
	settings := content.Settings(d)
	rows := make([][]string, 0, content.MaxLevel)
	for n := 1; n <= content.MaxLevel; n++ {
		cfg := content.Level(n)
		boss := combat.NewBoss(cfg, settings, "")
		rows = append(rows, []string{
			fmt.Sprintf("%d", cfg.Number),
			cfg.Element.Glyph() + " " + cfg.Element.Key(),
			boss.Name,
			fmt.Sprintf("%d", boss.MaxHealth),
			fmt.Sprintf("%d", boss.Damage),
			fmt.Sprintf("%.2fs", boss.AttackInterval.Seconds()),
		})
	}
	return rows
}

// RenderLevels prints the campaign table for a difficulty.
func RenderLevels(w io.Writer, d model.Difficulty) error {
	settings := content.Settings(d)
	if _, err := fmt.Fprintf(w, "Difficulty: %s (speed x%.1f, damage x%.1f)\n", d, settings.SpeedMultiplier, settings.DamageMultiplier); err != nil {
		return err
	}
	headers := []string{"Lv", "Element", "Boss", "HP", "Damage", "Interval"}
	rightAlign := map[int]bool{0: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, LevelRows(d), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
