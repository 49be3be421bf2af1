package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
		{"  error  ", LevelError},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLevel(tc.input))
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
}

func TestTextLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Format: "text", Output: &buf})

	logger.Info(context.Background(), "rendered document", "bytes", 120)

	out := buf.String()
	assert.Contains(t, out, "rendered document")
	assert.Contains(t, out, "bytes=120")
}

func TestJSONLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelInfo, Format: "json", Output: &buf})

	logger.Error(context.Background(), errors.New("boom"), "render failed", "file", "doc.md")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "render failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "doc.md", entry["file"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelWarn, Format: "text", Output: &buf})

	logger.Debug(context.Background(), "hidden")
	logger.Info(context.Background(), "also hidden")
	logger.Warn(context.Background(), nil, "visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelInfo, Format: "text", Output: &buf})

	logger.WithComponent("preview-server").Info(context.Background(), "listening")

	assert.Contains(t, buf.String(), "component=preview-server")
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelInfo, Format: "text", Output: &buf})

	logger.With("file", "doc.md").Info(context.Background(), "watching")

	assert.Contains(t, buf.String(), "file=doc.md")
}

func TestNilConfigUsesDefaults(t *testing.T) {
	assert.NotPanics(t, func() {
		logger := NewLogger(nil)
		logger.Debug(context.Background(), "suppressed at default level")
	})
}

func TestNopLoggerDiscards(t *testing.T) {
	var logger Logger = NopLogger{}
	assert.NotPanics(t, func() {
		logger.Info(context.Background(), "nowhere")
		logger.Error(context.Background(), errors.New("x"), "nowhere")
		logger.With("k", "v").WithComponent("c").Warn(context.Background(), nil, "nowhere")
	})
}

func TestTextOutputIsSingleLinePerEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelInfo, Format: "text", Output: &buf})

	logger.Info(context.Background(), "one")
	logger.Info(context.Background(), "two")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
}
