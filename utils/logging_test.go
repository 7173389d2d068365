package utils

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
	}
	for input, expected := range testCases {
		level, err := ParseLogLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, level, input)
	}

	_, err := ParseLogLevel("loud")
	require.Error(t, err)
}

func TestDiscordgoLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)
	logFn := DiscordgoLogger(logger)

	logFn(discordgo.LogDebug, 0, "heartbeat %d", 1)
	assert.Empty(t, buf.String())

	logFn(discordgo.LogError, 0, "websocket closed\nreconnecting")
	assert.Contains(t, buf.String(), "websocket closedreconnecting")
	assert.Contains(t, buf.String(), "discordgo")
}
