// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game     GameConfig     `toml:"game"`
	Content  ContentConfig  `toml:"content"`
	Spectate SpectateConfig `toml:"spectate"`
}

// GameConfig maps gameplay settings.
type GameConfig struct {
	Difficulty    *string `toml:"difficulty"`
	Mute          *bool   `toml:"mute"`
	Seed          *int64  `toml:"seed"`
	ParticleLimit *int    `toml:"particle-limit"`
}

// ContentConfig maps content provider settings.
type ContentConfig struct {
	Provider    *string `toml:"provider"`
	Model       *string `toml:"model"`
	APIKeyEnv   *string `toml:"api-key-env"`
	Timeout     *string `toml:"timeout"`
	WordpackDir *string `toml:"wordpack-dir"`
}

// SpectateConfig maps spectator server settings.
type SpectateConfig struct {
	Addr *string `toml:"addr"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
