package logger

import (
	"io"
	"os"
	"time"

	"github.com/gentlyventures/harboragent/internal/config"
	"github.com/rs/zerolog"
)

// New builds the service logger. LOG_FORMAT=console switches to the human
// readable writer; anything else logs JSON lines.
func New(cfg config.Log, environment string) zerolog.Logger {
	return build(os.Stdout, cfg, environment)
}

func build(w io.Writer, cfg config.Log, environment string) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("env", environment).
		Logger()
}
