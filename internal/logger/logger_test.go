package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/helpdesk-api/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LoggerConfig{Level: "info", Format: "json"}, &buf)

	WithComponent(l, "tickets").Info("ticket created", "ticket_id", 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ticket created", line["msg"])
	assert.Equal(t, "tickets", line["component"])
	assert.EqualValues(t, 7, line["ticket_id"])
}

func TestNew_ConsoleFormatRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LoggerConfig{Level: "warn", Format: "console"}, &buf)

	l.Info("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("notification insert failed", "error", errors.New("boom"))
	assert.Contains(t, buf.String(), "notification insert failed")
	assert.Contains(t, buf.String(), "boom")
}
