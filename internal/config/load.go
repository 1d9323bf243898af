package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/utils/pathutils"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "artcrate"
	configFile = "config.yml"
)

// GetConfigDir returns $XDG_CONFIG_HOME/artcrate (~/.config/artcrate).
func GetConfigDir() string {
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(home, ".config", appName)
}

// DefaultDataDir returns $XDG_STATE_HOME/artcrate (~/.local/state/artcrate).
func DefaultDataDir() string {
	if x := os.Getenv("XDG_STATE_HOME"); x != "" {
		return filepath.Join(x, appName)
	}
	return "~/.local/state/" + appName
}

func DefaultConfigPath() string {
	return filepath.Join(GetConfigDir(), configFile)
}

// Load reads path over Default(). A missing file is not an error; the
// defaults are used. An empty path means DefaultConfigPath().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Debug("no config at %s, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	dir, err := pathutils.ToAbsolutePath(cfg.Store.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store dir: %w", err)
	}
	cfg.Store.Dir = dir

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("ARTCRATE_ENV")); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(os.Getenv("ARTCRATE_FEED_URL")); v != "" {
		cfg.FeedURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ARTCRATE_STORE_BACKEND")); v != "" {
		cfg.Store.Backend = v
	}
}

// Save writes cfg to path, creating the parent directory. The store dir is
// written in "~/..." form when it lives under the home directory.
func (c Config) Save(path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := c
	if short, err := pathutils.ToHomePathFormat(c.Store.Dir); err == nil {
		out.Store.Dir = short
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
