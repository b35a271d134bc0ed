// Package config loads the optional YAML settings file. Command-line flags override it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"batnav/internal/leaderboard"
)

type Config struct {
	ChartsFile string `yaml:"charts_file"`
	ChartsMax  int    `yaml:"charts_max"`
	LogLevel   string `yaml:"log_level"`
	KeysDir    string `yaml:"keys_dir"`
	Prove      bool   `yaml:"prove"`
	Addr       string `yaml:"addr"`
}

func Default() Config {
	return Config{
		ChartsFile: leaderboard.DefaultFile,
		ChartsMax:  leaderboard.MaxEntries,
		LogLevel:   "warn",
		KeysDir:    "./keys",
		Addr:       ":8080",
	}
}

// Load reads path over the defaults. An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.ChartsMax <= 0 {
		return fmt.Errorf("charts_max must be positive, got %d", c.ChartsMax)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel accepts debug|info|warn|error.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info", "":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
}
