package common

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("mint created", "mint", "So11111111111111111111111111111111111111112")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "mint created", entry["msg"])
	assert.Equal(t, "So11111111111111111111111111111111111111112", entry["mint"])
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug", "text")

	logger.Debug("vault derived", "bump", 254)
	assert.Contains(t, buf.String(), "msg=\"vault derived\"")
	assert.Contains(t, buf.String(), "bump=254")
}

func TestLoggerMixin(t *testing.T) {
	var m LoggerMixin
	assert.Equal(t, slog.Default(), m.GetLogger())

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	m.SetLogger(custom)
	assert.Equal(t, custom, m.GetLogger())

	m.SetLogger(nil)
	assert.Equal(t, custom, m.GetLogger())
}
