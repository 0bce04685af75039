// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "inkblade"

// HomeEnv roots every inkblade directory in one place when set, which keeps
// a portable install or a test run away from the user's real files.
const HomeEnv = "INKBLADE_HOME"

// xdgDir resolves an XDG base directory. Relative values are ignored, as the
// XDG base directory rules require; fallback is joined onto the user home.
func xdgDir(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" && filepath.IsAbs(v) {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// XDGConfigHome returns the XDG config home or ~/.config.
func XDGConfigHome() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// XDGDataHome returns the XDG data home or ~/.local/share.
func XDGDataHome() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

func configDir() string {
	if v := os.Getenv(HomeEnv); v != "" {
		return v
	}
	return filepath.Join(XDGConfigHome(), appName)
}

func dataDir() string {
	if v := os.Getenv(HomeEnv); v != "" {
		return filepath.Join(v, "data")
	}
	return filepath.Join(XDGDataHome(), appName)
}

// DefaultWordpackDir returns the default directory for per-element word packs.
func DefaultWordpackDir() string {
	return filepath.Join(configDir(), "wordpacks")
}

// DefaultDBPath returns the run history database.
func DefaultDBPath() string {
	return filepath.Join(dataDir(), appName+".db")
}

// DefaultLogPath returns the log file used while the TUI owns the terminal.
func DefaultLogPath() string {
	return filepath.Join(dataDir(), appName+".log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.toml")
}
