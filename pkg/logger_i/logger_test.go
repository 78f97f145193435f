package logger_i

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/stretchr/testify/assert"
)

func captureDefault(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})))
	return &buf
}

func TestLogger_UsesHandlerInstalledAfterCreation(t *testing.T) {
	early := NewLogger("early")
	scoped := early.With("jobId", "j1")

	buf := captureDefault(t, slog.LevelDebug)
	early.Debug("debug line")
	scoped.Info("info line")

	out := buf.String()
	assert.Contains(t, out, `"msg":"debug line"`)
	assert.Contains(t, out, `"component":"early"`)
	assert.Contains(t, out, `"jobId":"j1"`)
}

func TestLogger_RespectsLevel(t *testing.T) {
	log := NewLogger("quiet")
	buf := captureDefault(t, slog.LevelInfo)

	log.Debug("dropped")
	log.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestLogger_WithTrace(t *testing.T) {
	log := NewLogger("trace")
	buf := captureDefault(t, slog.LevelDebug)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "abc-123")
	log.WithTrace(ctx).Info("traced")
	log.WithTrace(context.Background()).Info("untraced")

	assert.Contains(t, buf.String(), `"traceId":"abc-123"`)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("traceId")))
}
