package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		dev  bool
		want slog.Level
	}{
		{"", true, slog.LevelDebug},
		{"", false, slog.LevelInfo},
		{"DEBUG", false, slog.LevelDebug},
		{"warning", false, slog.LevelWarn},
		{"error", true, slog.LevelError},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in, tt.dev)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseLevel("loud", false)
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "import"} {
		assert.True(t, names[want], want)
	}
}
