// Package config holds the uecmd configuration, stored as YAML in the config
// directory (default ~/.uecmd). A missing file yields defaults; environment
// variables override individual fields for scripting.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the YAML file inside the config directory.
const ConfigFileName = "config.yaml"

// DatabaseFileName is the favourites/history database inside the config directory.
const DatabaseFileName = "uecmd.db"

// Config holds all uecmd configuration.
type Config struct {
	Catalog    CatalogConfig `yaml:"catalog"`
	ADB        ADBConfig     `yaml:"adb"`
	History    HistoryConfig `yaml:"history"`
	Favourites []string      `yaml:"favourites"`
	Logging    LoggingConfig `yaml:"logging"`
}

// CatalogConfig locates the engine's help dump.
type CatalogConfig struct {
	// Path to ConsoleHelp.html. Empty selects the engine's Saved-directory
	// convention relative to the binary.
	Path string `yaml:"path"`
}

// ADBConfig configures the debug-bridge transport.
type ADBConfig struct {
	Binary          string `yaml:"binary"`
	BroadcastAction string `yaml:"broadcast_action"`
	ExtraKey        string `yaml:"extra_key"`
	Timeout         string `yaml:"timeout"`
}

// HistoryConfig tunes history retention.
type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Level string `yaml:"level"` // debug/info/warn/error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ADB: ADBConfig{
			Binary:          "adb",
			BroadcastAction: "android.intent.action.RUN",
			ExtraKey:        "cmd",
			Timeout:         "10s",
		},
		History: HistoryConfig{Limit: 50},
		Favourites: []string{
			"stat unit",
			"stat fps",
			"r.MSAACount 4",
			"r.MSAACount 8",
			"t.MaxFPS 60",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// DefaultDir returns the default config directory (~/.uecmd), falling back to
// a relative .uecmd when the home directory cannot be determined.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".uecmd"
	}
	return filepath.Join(home, ".uecmd")
}

// Load reads the config from dir, applying defaults for a missing file and
// environment overrides on top.
func Load(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyEnvOverrides(cfg)
	if cfg.History.Limit <= 0 {
		cfg.History.Limit = 50
	}
	return cfg, nil
}

// Save writes the config to dir, creating it as needed.
func Save(cfg *Config, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// DatabasePath returns the store location under dir.
func DatabasePath(dir string) string {
	return filepath.Join(dir, DatabaseFileName)
}

// ADBTimeout parses the configured adb timeout, defaulting to 10s.
func (c *Config) ADBTimeout() time.Duration {
	d, err := time.ParseDuration(c.ADB.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("UECMD_ADB_BINARY"); v != "" {
		cfg.ADB.Binary = v
	}
	if v := os.Getenv("UECMD_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("UECMD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
