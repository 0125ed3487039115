package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/meadowmath/meadowmath-backend/internal/config"
)

func TestNewLoggerSetsDefault(t *testing.T) {
	logger := NewLogger(config.LogConfig{Level: "info", Format: "json"})
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}
	if slog.Default().Handler() != logger.Handler() {
		t.Error("returned logger is not the slog default")
	}
}

func TestHandlerFormats(t *testing.T) {
	var jsonBuf, textBuf bytes.Buffer

	slog.New(newHandler(&jsonBuf, config.LogConfig{Level: "info", Format: "json"})).Info("hello")
	slog.New(newHandler(&textBuf, config.LogConfig{Level: "info", Format: "text"})).Info("hello")

	var m map[string]any
	if err := json.Unmarshal(jsonBuf.Bytes(), &m); err != nil {
		t.Fatalf("json format produced invalid JSON: %v", err)
	}
	if _, ok := m["source"]; ok {
		t.Error("json format should not carry source locations")
	}

	if !strings.Contains(textBuf.String(), "source=") {
		t.Error("text format should carry source locations")
	}
}

func TestParseLevelThresholds(t *testing.T) {
	tests := []struct {
		raw  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level="+strings.TrimSpace(tt.raw), func(t *testing.T) {
			if got := parseLevel(tt.raw); got != tt.want {
				t.Fatalf("parseLevel(%q) = %v, want %v", tt.raw, got, tt.want)
			}

			var buf bytes.Buffer
			logger := slog.New(newHandler(&buf, config.LogConfig{Level: tt.raw, Format: "json"}))

			logger.Log(context.Background(), tt.want, "at threshold")
			if buf.Len() == 0 {
				t.Errorf("message at level %v was suppressed", tt.want)
			}

			buf.Reset()
			logger.Log(context.Background(), tt.want-1, "below threshold")
			if buf.Len() != 0 {
				t.Errorf("message below level %v was emitted: %s", tt.want, buf.String())
			}
		})
	}
}
