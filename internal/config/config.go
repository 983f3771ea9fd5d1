package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the client-side lightpanel configuration.
type Config struct {
	BaseURL       string
	PrefsDir      string
	StatsInterval time.Duration
	LogFile       string
	LogLevel      string
}

const (
	defaultConfigPath    = "~/.config/lightpanel/config.toml"
	defaultBaseURL       = "127.0.0.1:16601"
	defaultPrefsDir      = "~/.config/lightpanel"
	defaultLogFile       = "~/.local/state/lightpanel/lightpanel.log"
	defaultLogLevel      = "info"
	defaultStatsInterval = 5 * time.Second
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:       defaultBaseURL,
		PrefsDir:      mustExpand(defaultPrefsDir),
		StatsInterval: defaultStatsInterval,
		LogFile:       mustExpand(defaultLogFile),
		LogLevel:      defaultLogLevel,
	}
}

// Load locates and parses the lightpanel config, falling back to defaults
// when the file is missing or a field is blank.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL         string `toml:"base_url"`
		PrefsDir        string `toml:"prefs_dir"`
		StatsIntervalMS int64  `toml:"stats_interval_ms"`
		LogFile         string `toml:"log_file"`
		LogLevel        string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(raw.PrefsDir); v != "" {
		cfg.PrefsDir = mustExpand(v)
	}
	if raw.StatsIntervalMS > 0 {
		cfg.StatsInterval = time.Duration(raw.StatsIntervalMS) * time.Millisecond
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// DefaultPath returns the expanded default config file location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
