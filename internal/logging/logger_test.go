package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONIncludesContextIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "debug", Format: "json", Output: &buf})

	ctx := WithCorrelationID(context.Background(), "corr-1")
	ctx = WithRequestID(ctx, "req-1")
	logger.InfoContext(ctx, "task created", "task_id", 42)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "task created", record["msg"])
	assert.Equal(t, "corr-1", record[CorrelationIDKey])
	assert.Equal(t, "req-1", record[RequestIDKey])
	assert.EqualValues(t, 42, record["task_id"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "warn", Format: "text", Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNew_WithAttrsKeepsContextIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "info", Format: "text", Output: &buf}).With("component", "web")

	logger.InfoContext(WithCorrelationID(context.Background(), "abc"), "hello")

	out := buf.String()
	assert.True(t, strings.Contains(out, "component=web"), out)
	assert.True(t, strings.Contains(out, "correlation_id=abc"), out)
}

func TestNewCorrelationID_Unique(t *testing.T) {
	a, b := NewCorrelationID(), NewCorrelationID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
