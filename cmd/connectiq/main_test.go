package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/connectiq/connectiq-tui/internal/config"
)

func TestGetConfigPath(t *testing.T) {
	t.Run("flag_wins", func(t *testing.T) {
		t.Setenv("CONNECTIQ_CONFIG", "/from/env.json")
		assert.Equal(t, "/from/flag.json", getConfigPath("/from/flag.json"))
	})

	t.Run("env_over_default", func(t *testing.T) {
		t.Setenv("CONNECTIQ_CONFIG", "/from/env.json")
		assert.Equal(t, "/from/env.json", getConfigPath(""))
	})

	t.Run("default_fallback", func(t *testing.T) {
		t.Setenv("CONNECTIQ_CONFIG", "")
		assert.Equal(t, config.DefaultConfigPath(), getConfigPath(""))
	})
}

func TestGetDatabasePath(t *testing.T) {
	assert.Equal(t, "/flag.db", getDatabasePath("/flag.db", "/config.db"))
	assert.Equal(t, "/config.db", getDatabasePath("", "/config.db"))
	assert.Equal(t, config.DefaultDatabasePath(), getDatabasePath("", ""))
}