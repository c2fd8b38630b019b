package appconfig

import (
	"os"
	"path/filepath"
	"time"

	"pkt.systems/tabsession/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int           `mapstructure:"config_version" yaml:"config_version"`
	StateDir      string        `mapstructure:"state_dir" yaml:"state_dir"`
	Store         StoreConfig   `mapstructure:"store" yaml:"store"`
	Session       SessionConfig `mapstructure:"session" yaml:"session"`
	Metrics       MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// StoreConfig selects where session snapshots are kept.
type StoreConfig struct {
	Backend    string `mapstructure:"backend" yaml:"backend"`
	Key        string `mapstructure:"key" yaml:"key"`
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

// SessionConfig bounds the in-memory session.
type SessionConfig struct {
	RecentlyClosedMax    int `mapstructure:"recently_closed_max" yaml:"recently_closed_max"`
	SuggestionHistoryMax int `mapstructure:"suggestion_history_max" yaml:"suggestion_history_max"`
	SaveTimeoutSeconds   int `mapstructure:"save_timeout_seconds" yaml:"save_timeout_seconds"`
}

// MetricsConfig configures the optional prometheus listener of the shell.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	stateDir := filepath.Join(home, ".tabsession", "state")
	return Config{
		ConfigVersion: CurrentConfigVersion,
		StateDir:      stateDir,
		Store: StoreConfig{
			Backend:    BackendFile,
			Key:        "default",
			SQLitePath: filepath.Join(stateDir, "session.db"),
		},
		Session: SessionConfig{
			RecentlyClosedMax:    schema.RecentlyClosedMax,
			SuggestionHistoryMax: schema.SuggestionHistoryMax,
			SaveTimeoutSeconds:   int(schema.DefaultSaveTimeout / time.Second),
		},
		Metrics: MetricsConfig{
			Addr: "",
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tabsession", "config.yaml"), nil
}

// EngineConfig converts the session section into engine limits.
func (c Config) EngineConfig() (schema.EngineConfig, error) {
	return schema.NormalizeEngineConfig(schema.EngineConfig{
		RecentlyClosedMax:    c.Session.RecentlyClosedMax,
		SuggestionHistoryMax: c.Session.SuggestionHistoryMax,
		SaveTimeout:          time.Duration(c.Session.SaveTimeoutSeconds) * time.Second,
	})
}
