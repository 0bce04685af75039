package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/inkblade/internal/card"
	"github.com/verte-zerg/inkblade/internal/config"
	"github.com/verte-zerg/inkblade/internal/content"
	"github.com/verte-zerg/inkblade/internal/historyui"
	"github.com/verte-zerg/inkblade/internal/model"
	"github.com/verte-zerg/inkblade/internal/spectate"
	"github.com/verte-zerg/inkblade/internal/stats"
	"github.com/verte-zerg/inkblade/internal/store"
)

var (
	levelsDifficulty string

	wordpackDir   string
	wordpackForce bool

	historyDifficulty string
	historySince      string
	historyLast       int
	historyPlain      bool

	cardOut   string
	cardRun   string
	cardWidth int
	cardFont  string

	serveAddr string
)

func newLevelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List levels and boss stats",
		Args:  cobra.NoArgs,
		RunE:  runLevelsCmd,
	}
	cmd.Flags().StringVar(&levelsDifficulty, "difficulty", defaultDifficulty, "easy, normal or hard")
	return cmd
}

func runLevelsCmd(cmd *cobra.Command, _ []string) error {
	d, err := model.ParseDifficulty(levelsDifficulty)
	if err != nil {
		return fmt.Errorf("invalid --difficulty: %w", err)
	}
	if err := stats.RenderLevels(cmd.OutOrStdout(), d); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newWordpackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordpack",
		Short: "Export built-in words as an editable word pack",
		Args:  cobra.NoArgs,
		RunE:  runWordpackCmd,
	}
	cmd.Flags().StringVar(&wordpackDir, "dir", "", "output directory (default: XDG config dir)")
	cmd.Flags().BoolVar(&wordpackForce, "force", false, "overwrite existing files")
	return cmd
}

func runWordpackCmd(_ *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dir := wordpackDir
	if dir == "" && fileCfg.Content.WordpackDir != nil {
		dir = *fileCfg.Content.WordpackDir
	}
	if dir == "" {
		dir = config.DefaultWordpackDir()
	}
	pack := content.WordPack{Dir: dir}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, element := range model.Elements {
		if element == model.ElementHealing {
			continue
		}
		outPath := pack.Path(element)
		if !wordpackForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("word pack already exists: %s (use --force to overwrite)", outPath)
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("failed to stat word pack: %w", err)
			}
		}
		if err := writeWordList(outPath, content.StaticContent(element).Words); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		logErrf("Wrote %s\n", outPath)
	}
	logErrln("Play with: inkblade --provider wordpack")
	return nil
}

func writeWordList(path string, words []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create word list dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "wordpack-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp word list: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, word := range words {
		if _, err := fmt.Fprintln(writer, word); err != nil {
			return fmt.Errorf("failed to write word list: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush word list: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close word list: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write word list: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyDifficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print text instead of opening the TUI")
	return cmd
}

func historyFilter() (model.HistoryFilter, error) {
	var filter model.HistoryFilter
	if historyDifficulty != "" {
		d, err := model.ParseDifficulty(historyDifficulty)
		if err != nil {
			return filter, fmt.Errorf("invalid --difficulty: %w", err)
		}
		filter.Difficulty = &d
	}
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	if historyLast < 0 {
		return filter, fmt.Errorf("--last must be >= 0")
	}
	filter.Last = historyLast
	return filter, nil
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	filter, err := historyFilter()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if historyPlain {
		return printHistory(cmd, st, filter)
	}

	ui := historyui.NewModel(st, filter)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func printHistory(cmd *cobra.Command, st *store.Store, filter model.HistoryFilter) error {
	runs, err := st.ListRuns(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to load runs: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, runs); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderRunTable(out, runs); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(runs) == 0 {
		return nil
	}
	last := runs[len(runs)-1]
	if _, err := fmt.Fprintf(out, "Latest: %s\n", stats.Headline(last.Outcome)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderBars(out, stats.RunBars(last), 0, false); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Render a run summary image",
		Args:  cobra.NoArgs,
		RunE:  runCardCmd,
	}
	cmd.Flags().StringVar(&cardOut, "out", "inkblade.png", "output file (.png, .jpg, .gif, .bmp, .tif)")
	cmd.Flags().StringVar(&cardRun, "run", "", "run id (default: latest run)")
	cmd.Flags().IntVar(&cardWidth, "width", 0, "output width in pixels (0 = native)")
	cmd.Flags().StringVar(&cardFont, "font", "", "TrueType font for CJK labels")
	return cmd
}

func runCardCmd(cmd *cobra.Command, _ []string) error {
	if cardWidth < 0 {
		return fmt.Errorf("--width must be >= 0")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	var run model.RunRecord
	if cardRun != "" {
		run, err = st.GetRun(cmd.Context(), cardRun)
	} else {
		run, err = st.LatestRun(cmd.Context())
	}
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no matching run found; finish a game first")
	}
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}

	img, err := card.Render(run, card.Options{Width: cardWidth, FontPath: cardFont})
	if err != nil {
		return err
	}
	if err := card.Save(cardOut, img); err != nil {
		return err
	}
	logErrf("Wrote %s\n", cardOut)
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve run history over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultSpectateAddr, "listen address")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Spectate.Addr)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	srv := spectate.New(st)
	addr, err := srv.Start(serveAddr)
	if err != nil {
		return err
	}
	logErrf("Serving history on http://%s/api/runs\n", addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
