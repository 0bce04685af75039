package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Game.Difficulty != nil || cfg.Content.Provider != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[game]
difficulty = "hard"
mute = true
particle-limit = 64

[content]
provider = "wordpack"
timeout = "3s"

[spectate]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Game.Difficulty == nil || *cfg.Game.Difficulty != "hard" {
		t.Fatalf("unexpected difficulty: %v", cfg.Game.Difficulty)
	}
	if cfg.Game.Mute == nil || !*cfg.Game.Mute {
		t.Fatalf("expected mute to be set")
	}
	if cfg.Game.ParticleLimit == nil || *cfg.Game.ParticleLimit != 64 {
		t.Fatalf("unexpected particle limit: %v", cfg.Game.ParticleLimit)
	}
	if cfg.Game.Seed != nil {
		t.Fatalf("expected seed to stay unset")
	}
	if cfg.Content.Provider == nil || *cfg.Content.Provider != "wordpack" {
		t.Fatalf("unexpected provider: %v", cfg.Content.Provider)
	}
	if cfg.Spectate.Addr == nil || *cfg.Spectate.Addr != ":9090" {
		t.Fatalf("unexpected spectate addr: %v", cfg.Spectate.Addr)
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[game]\nspeed = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "game.speed") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv(HomeEnv, "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "inkblade", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "inkblade", "inkblade.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
	if got := DefaultWordpackDir(); got != filepath.Join("/tmp/cfg", "inkblade", "wordpacks") {
		t.Fatalf("unexpected wordpack dir: %s", got)
	}
}

func TestRelativeXDGValueIsIgnored(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(HomeEnv, "")
	t.Setenv("XDG_CONFIG_HOME", "relative/cfg")
	t.Setenv("XDG_DATA_HOME", "")
	if got := XDGConfigHome(); got != filepath.Join(home, ".config") {
		t.Fatalf("relative XDG_CONFIG_HOME should fall back to home, got %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join(home, ".local", "share", "inkblade", "inkblade.log") {
		t.Fatalf("unexpected log path: %s", got)
	}
}

func TestHomeEnvOverridesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	t.Setenv(HomeEnv, "/opt/inkblade")
	if got := DefaultConfigPath(); got != filepath.Join("/opt/inkblade", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultWordpackDir(); got != filepath.Join("/opt/inkblade", "wordpacks") {
		t.Fatalf("unexpected wordpack dir: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/opt/inkblade", "data", "inkblade.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
}
