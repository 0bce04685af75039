// Package main provides the CLI entrypoint for inkblade.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/inkblade/internal/audio"
	"github.com/verte-zerg/inkblade/internal/config"
	"github.com/verte-zerg/inkblade/internal/content"
	"github.com/verte-zerg/inkblade/internal/generator"
	"github.com/verte-zerg/inkblade/internal/model"
	"github.com/verte-zerg/inkblade/internal/particles"
	"github.com/verte-zerg/inkblade/internal/session"
	"github.com/verte-zerg/inkblade/internal/spectate"
	"github.com/verte-zerg/inkblade/internal/store"
	"github.com/verte-zerg/inkblade/internal/tui"
)

const (
	defaultDifficulty     = "normal"
	defaultProvider       = "static"
	defaultAPIKeyEnv      = "GEMINI_API_KEY"
	fallbackAPIKeyEnv     = "API_KEY"
	defaultContentTimeout = "8s"
	defaultSpectateAddr   = "127.0.0.1:8080"
)

var (
	playDifficulty    string
	playMute          bool
	playSeed          int64
	playParticleLimit int
	playProvider      string
	playModel         string
	playAPIKeyEnv     string
	playTimeout       string
	playWordpackDir   string
	playSpectate      string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "inkblade",
		Short:         "Typing combat in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playDifficulty, "difficulty", defaultDifficulty, "easy, normal or hard")
	rootCmd.Flags().BoolVar(&playMute, "mute", false, "start with sound muted")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "random seed for challenges and particles (0 = time based)")
	rootCmd.Flags().IntVar(&playParticleLimit, "particle-limit", particles.DefaultLimit, "maximum live particles")
	rootCmd.Flags().StringVar(&playProvider, "provider", defaultProvider, "content provider: static, wordpack or gemini")
	rootCmd.Flags().StringVar(&playModel, "model", content.DefaultGeminiModel, "gemini model name")
	rootCmd.Flags().StringVar(&playAPIKeyEnv, "api-key-env", defaultAPIKeyEnv, "environment variable holding the gemini API key")
	rootCmd.Flags().StringVar(&playTimeout, "timeout", defaultContentTimeout, "content request timeout")
	rootCmd.Flags().StringVar(&playWordpackDir, "wordpack-dir", "", "word pack directory (default: XDG config dir)")
	rootCmd.Flags().StringVar(&playSpectate, "spectate", "", "serve the live game for spectators on this address")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLevelsCmd())
	rootCmd.AddCommand(newWordpackCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newCardCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

type playConfig struct {
	Difficulty    model.Difficulty
	Mute          bool
	Seed          int64
	ParticleLimit int
	Provider      string
	Model         string
	APIKeyEnv     string
	Timeout       time.Duration
	WordpackDir   string
	SpectateAddr  string
}

func loadPlayConfig(cmd *cobra.Command) (playConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return playConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "difficulty", &playDifficulty, fileCfg.Game.Difficulty)
	applyBoolConfig(cmd, "mute", &playMute, fileCfg.Game.Mute)
	applyInt64Config(cmd, "seed", &playSeed, fileCfg.Game.Seed)
	applyIntConfig(cmd, "particle-limit", &playParticleLimit, fileCfg.Game.ParticleLimit)
	applyStringConfig(cmd, "provider", &playProvider, fileCfg.Content.Provider)
	applyStringConfig(cmd, "model", &playModel, fileCfg.Content.Model)
	applyStringConfig(cmd, "api-key-env", &playAPIKeyEnv, fileCfg.Content.APIKeyEnv)
	applyStringConfig(cmd, "timeout", &playTimeout, fileCfg.Content.Timeout)
	applyStringConfig(cmd, "wordpack-dir", &playWordpackDir, fileCfg.Content.WordpackDir)
	applyStringConfig(cmd, "spectate", &playSpectate, fileCfg.Spectate.Addr)

	difficulty, err := model.ParseDifficulty(playDifficulty)
	if err != nil {
		return playConfig{}, fmt.Errorf("invalid --difficulty: %w", err)
	}
	timeout, err := time.ParseDuration(playTimeout)
	if err != nil {
		return playConfig{}, fmt.Errorf("invalid --timeout value: %w", err)
	}
	cfg := playConfig{
		Difficulty:    difficulty,
		Mute:          playMute,
		Seed:          playSeed,
		ParticleLimit: playParticleLimit,
		Provider:      strings.ToLower(strings.TrimSpace(playProvider)),
		Model:         playModel,
		APIKeyEnv:     playAPIKeyEnv,
		Timeout:       timeout,
		WordpackDir:   playWordpackDir,
		SpectateAddr:  playSpectate,
	}
	if cfg.WordpackDir == "" {
		cfg.WordpackDir = config.DefaultWordpackDir()
	}
	if err := validatePlayConfig(cfg); err != nil {
		return playConfig{}, err
	}
	return cfg, nil
}

func validatePlayConfig(cfg playConfig) error {
	if cfg.ParticleLimit <= 0 {
		return fmt.Errorf("--particle-limit must be > 0")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	switch cfg.Provider {
	case "static", "wordpack", "gemini":
	default:
		return fmt.Errorf("unknown --provider %q (expected static, wordpack or gemini)", cfg.Provider)
	}
	return nil
}

// buildProvider never fails hard: a provider that cannot be set up is
// replaced by the static tables, the same way a failed fetch is.
func buildProvider(cfg playConfig) content.Provider {
	switch cfg.Provider {
	case "wordpack":
		return content.WordPack{Dir: cfg.WordpackDir}
	case "gemini":
		key := lookupAPIKey(cfg.APIKeyEnv)
		if key == "" {
			logErrf("no API key in $%s or $%s; using built-in words\n", cfg.APIKeyEnv, fallbackAPIKeyEnv)
			return content.Static{}
		}
		return content.NewGemini(key, cfg.Model, cfg.Timeout)
	default:
		return content.Static{}
	}
}

func lookupAPIKey(name string) string {
	if name != "" {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return strings.TrimSpace(os.Getenv(fallbackAPIKeyEnv))
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPlayConfig(cmd)
	if err != nil {
		return err
	}

	logFile, err := openLog()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	player := audio.New()
	if err := player.Init(); err != nil {
		log.Printf("audio disabled: %v", err)
	}
	defer player.Close()

	selector := generator.New()
	if cfg.Seed != 0 {
		selector = generator.NewWithSeed(cfg.Seed)
	}
	sim := particles.New(cfg.ParticleLimit, cfg.Seed)

	sess := session.New(session.Options{
		Difficulty: cfg.Difficulty,
		Provider:   buildProvider(cfg),
		Selector:   selector,
		Particles:  sim,
		Cues:       player,
		Muted:      cfg.Mute,
	})
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.SpectateAddr != "" {
		srv := spectate.New(st)
		sess.AddObserver(srv)
		addr, err := srv.Start(cfg.SpectateAddr)
		if err != nil {
			return err
		}
		logErrf("Spectators: http://%s/api/state\n", addr)
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logErrf("%v\n", err)
			}
		}()
	}

	ui := tui.NewModel(tui.Options{
		Session:   sess,
		Particles: sim,
		Store:     st,
		Context:   ctx,
	})
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// openLog redirects the std logger to a file so nothing reaches the alt-screen.
func openLog() (*os.File, error) {
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "inkblade")
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# inkblade configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# difficulty = %q       # easy, normal or hard
# mute = false             # Start with sound muted
# seed = 0                 # Random seed (0 = time based)
# particle-limit = %d     # Maximum live particles

[content]
# provider = %q         # static, wordpack or gemini
# model = %q  # Gemini model
# api-key-env = %q  # Env var holding the Gemini API key
# timeout = %q              # Content request timeout
# wordpack-dir = %q

[spectate]
# addr = %q  # Serve the live game for spectators
`,
		defaultDifficulty,
		particles.DefaultLimit,
		defaultProvider,
		content.DefaultGeminiModel,
		defaultAPIKeyEnv,
		defaultContentTimeout,
		config.DefaultWordpackDir(),
		defaultSpectateAddr,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
