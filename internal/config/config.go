package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// APIConfig holds settings for the remote ConnectIQ service
type APIConfig struct {
	// BaseURL is the root of the recommendation service
	BaseURL string `json:"base_url" env:"CONNECTIQ_BASE_URL"`

	// Timeout for HTTP requests ("0" disables)
	Timeout string `json:"timeout"`
}

// Config holds all configuration for the ConnectIQ terminal client
type Config struct {
	API APIConfig `json:"api"`

	// Database is the path to the local SQLite store
	Database string `json:"database" env:"CONNECTIQ_DB"`

	// Theme is the fallback theme name when no preference has been persisted
	Theme string `json:"theme"`

	// Keyboard shortcuts
	Keys KeyBindings `json:"keys"`

	// Logging
	LogFile string `json:"log_file" env:"CONNECTIQ_LOG"`
}

// KeyBindings defines the configurable dashboard shortcuts
type KeyBindings struct {
	Search        string `json:"search"`
	Save          string `json:"save"`
	Export        string `json:"export"`
	CycleFilter   string `json:"cycle_filter"`
	History       string `json:"history"`
	RemoteHistory string `json:"remote_history"`
	Probe         string `json:"probe"`
	ThemeToggle   string `json:"theme_toggle"`
	OpenProfile   string `json:"open_profile"`
	Logout        string `json:"logout"`
	Help          string `json:"help"`
	Quit          string `json:"quit"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: "0",
		},
		Theme:   "connectiq-dark",
		Keys:    DefaultKeyBindings(),
		LogFile: "",
	}
}

// DefaultKeyBindings returns the default dashboard shortcuts
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Search:        "/",
		Save:          "s",
		Export:        "e",
		CycleFilter:   "f",
		History:       "h",
		RemoteHistory: "H",
		Probe:         "p",
		ThemeToggle:   "t",
		OpenProfile:   "o",
		Logout:        "L",
		Help:          "?",
		Quit:          "q",
	}
}

// LoadConfig loads configuration from a JSON file over defaults, then applies
// environment variable overrides
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig persists the configuration as JSON
func (c *Config) SaveConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// DefaultConfigPath returns ~/.config/connectiq/config.json
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "connectiq", "config.json")
}

// DefaultDatabasePath returns ~/.config/connectiq/connectiq.db
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "connectiq", "connectiq.db")
}

// DefaultLogDir returns the directory used for log files
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "connectiq")
}

// DefaultThemesDir returns the built-in themes directory relative to the binary
func DefaultThemesDir() string {
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Join(filepath.Dir(exe), "themes")
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return dir
		}
	}
	return "themes"
}

// GetAPITimeout parses the configured HTTP timeout; zero means no timeout
func (c *Config) GetAPITimeout() time.Duration {
	if c.API.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
