package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatScore(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected string
	}{
		{"whole_number", 80, "80"},
		{"zero", 0, "0"},
		{"fraction", 72.5, "72.50"},
		{"small_fraction", 0.25, "0.25"},
		{"negative_whole", -3, "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatScore(tt.score))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"fits", "short", 10, "short"},
		{"exact_width", "exactly10!", 10, "exactly10!"},
		{"too_long", "a very long role title", 10, "a very lo…"},
		{"wide_runes", "日本語テキスト", 6, "日本…"},
		{"empty", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, truncate(tt.input, tt.width))
		})
	}
}