package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParseLevel(raw), raw)
	}
}

func TestPrettyHandlerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestPrettyHandlerAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil)).With("request_id", "r-1").WithGroup("http")

	log.Info("request", "path", "/api/v1/videos", "error", errors.New("not found"), slog.Group("user", "id", "u-1"))

	out := buf.String()
	assert.Contains(t, out, "request_id"+reset+"=r-1")
	assert.Contains(t, out, "http.path"+reset+"=/api/v1/videos")
	assert.Contains(t, out, `http.error`+reset+`="not found"`)
	assert.Contains(t, out, "http.user.id"+reset+"=u-1")
}

func TestNewSelectsFormat(t *testing.T) {
	var buf bytes.Buffer
	slog.New(New(&buf, "info", "json")).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	slog.New(New(&buf, "info", "")).Info("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"msg"`)
}
