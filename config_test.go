package batch

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLoadConfigFrom_Defaults(t *testing.T) {
	c, err := LoadConfigFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if c != DefaultConfig() {
		t.Errorf("got %+v, want %+v", c, DefaultConfig())
	}
}

func TestLoadConfigFrom_Overrides(t *testing.T) {
	c, err := LoadConfigFrom(map[string]string{
		"BATCH_LOG_LEVEL":  "debug",
		"BATCH_LOG_FORMAT": "json",
		"BATCH_CODEC":      "msgpack",
	})
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if c.LogLevel != "debug" || c.LogFormat != "json" || c.Codec != "msgpack" {
		t.Errorf("got %+v", c)
	}
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(Config{LogLevel: "info", LogFormat: "json"}, &buf).Info("hello", slog.String("k", "v"))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("json output: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "hello" || rec["k"] != "v" {
		t.Errorf("record = %v", rec)
	}

	buf.Reset()
	NewLogger(Config{LogLevel: "info", LogFormat: "text"}, &buf).Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{LogLevel: "warn"}, &buf)
	logger.Info("dropped")
	logger.Warn("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Errorf("output = %q", buf.String())
	}
}

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
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
