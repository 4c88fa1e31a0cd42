package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultProgressInterval matches the session's built-in tick period.
const DefaultProgressInterval = 250 * time.Millisecond

type Config struct {
	Session SessionConfig `koanf:"session"`
	Log     LogConfig     `koanf:"log"`

	// Playback history (resume positions, finished flags)
	History HistoryConfig `koanf:"history"`

	// Device trust probe used by media that refuses rooted devices
	Trust TrustConfig `koanf:"trust"`
}

// SessionConfig holds the playback session defaults.
type SessionConfig struct {
	ProgressIntervalMs int  `koanf:"progress_interval_ms"` // progress tick period (default: 250)
	AutoFullscreen     bool `koanf:"auto_fullscreen"`      // orientation drives fullscreen
	EnableControls     bool `koanf:"enable_controls"`      // controls shown at engine creation
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `koanf:"level"` // zerolog level name (default: "info")
}

// HistoryConfig holds the history store configuration.
type HistoryConfig struct {
	Enabled *bool  `koanf:"enabled"` // default: true
	Path    string `koanf:"path"`    // default: $XDG_DATA_HOME/sessionctl/history.db
}

// TrustConfig holds the rooted-device probe configuration.
type TrustConfig struct {
	ProbePaths []string `koanf:"probe_paths"` // empty means the built-in list
}

// Load reads the default config files.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given TOML files in order; later files win. Missing
// files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.History.Path != "" {
		cfg.History.Path = expandPath(cfg.History.Path)
	}
	for i, p := range cfg.Trust.ProbePaths {
		cfg.Trust.ProbePaths[i] = expandPath(p)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/sessionctl/config.toml
		filepath.Join(xdg.ConfigHome, "sessionctl", "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// ProgressInterval returns the progress tick period with defaults applied.
func (c *Config) ProgressInterval() time.Duration {
	if c.Session.ProgressIntervalMs <= 0 {
		return DefaultProgressInterval
	}
	return time.Duration(c.Session.ProgressIntervalMs) * time.Millisecond
}

// LogLevel returns the configured log level, "info" when unset.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return c.Log.Level
}

// HistoryEnabled reports whether playback history is recorded.
func (c *Config) HistoryEnabled() bool {
	if c.History.Enabled == nil {
		return true
	}
	return *c.History.Enabled
}

// HistoryPath returns the history database path, resolving the XDG default.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	return xdg.DataFile(filepath.Join("sessionctl", "history.db"))
}
