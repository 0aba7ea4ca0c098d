package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvmarkov/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.in))
		})
	}
}

func TestValidLevel(t *testing.T) {
	assert.True(t, logging.ValidLevel(""))
	assert.True(t, logging.ValidLevel(" Error "))
	assert.False(t, logging.ValidLevel("trace"))
}

func TestNewLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewLogger("warn", &buf)
	l.Info("hidden")
	l.Warn("shown", "state", "Default")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "state=Default")
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logging.NewJSONLogger("debug", &buf).Debug("step", "n", 3)
	require.Contains(t, buf.String(), `"msg":"step"`)
	require.Contains(t, buf.String(), `"n":3`)
}

func TestDiscard(t *testing.T) {
	require.NotNil(t, logging.Discard())
	require.NotNil(t, logging.OrDiscard(nil))
	l := slog.Default()
	require.Same(t, l, logging.OrDiscard(l))
	require.False(t, logging.Discard().Enabled(context.Background(), slog.LevelError))
}
