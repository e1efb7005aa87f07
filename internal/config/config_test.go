package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.API.BaseURL)
	assert.Equal(t, "0", cfg.API.Timeout)
	assert.Equal(t, "connectiq-dark", cfg.Theme)
	assert.Equal(t, "/", cfg.Keys.Search)
	assert.Equal(t, "s", cfg.Keys.Save)
	assert.Equal(t, "q", cfg.Keys.Quit)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().API.BaseURL, cfg.API.BaseURL)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"api": {"base_url": "https://api.example.com", "timeout": "30s"},
		"theme": "connectiq-light",
		"keys": {"save": "S"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, "30s", cfg.API.Timeout)
	assert.Equal(t, "connectiq-light", cfg.Theme)
	assert.Equal(t, "S", cfg.Keys.Save)
	// Untouched bindings keep their defaults
	assert.Equal(t, "/", cfg.Keys.Search)
}

func TestLoadConfig_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"api": {"base_url": "https://from-file.example.com"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONNECTIQ_BASE_URL", "https://from-env.example.com")
	t.Setenv("CONNECTIQ_DB", "/tmp/env.db")
	t.Setenv("CONNECTIQ_LOG", "/tmp/env.log")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://from-env.example.com", cfg.API.BaseURL)
	assert.Equal(t, "/tmp/env.db", cfg.Database)
	assert.Equal(t, "/tmp/env.log", cfg.LogFile)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://api.example.com"
	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", loaded.API.BaseURL)
}

func TestGetAPITimeout(t *testing.T) {
	tests := []struct {
		name     string
		timeout  string
		expected time.Duration
	}{
		{"empty_disables", "", 0},
		{"zero_disables", "0", 0},
		{"thirty_seconds", "30s", 30 * time.Second},
		{"two_minutes", "2m", 2 * time.Minute},
		{"garbage_disables", "soon", 0},
		{"negative_disables", "-5s", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.API.Timeout = tt.timeout
			assert.Equal(t, tt.expected, cfg.GetAPITimeout())
		})
	}
}