package batch

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the ambient settings shared by the batchgen CLI and by
// runtimes embedding this module. Values come from the environment.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"BATCH_LOG_LEVEL" envDefault:"info"`

	// LogFormat is "text" or "json".
	LogFormat string `env:"BATCH_LOG_FORMAT" envDefault:"text"`

	// Codec names the payload codec ("json" or "msgpack").
	Codec string `env:"BATCH_CODEC" envDefault:"json"`
}

// DefaultConfig returns a Config with the same defaults as the env tags.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Codec:     "json",
	}
}

// LoadConfig reads a Config from the process environment.
func LoadConfig() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("batch: load config: %w", err)
	}
	return c, nil
}

// LoadConfigFrom reads a Config from the given environment map instead of
// the process environment.
func LoadConfigFrom(environ map[string]string) (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("batch: load config: %w", err)
	}
	return c, nil
}

// NewLogger builds a structured logger writing to w according to c.
func NewLogger(c Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.LogLevel)}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
