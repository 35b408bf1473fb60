package vsupport

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return zerolog.InfoLevel, true
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

// NewLogger builds the logger described by cfg, writing to stderr.
func NewLogger(cfg Config) zerolog.Logger {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg Config, w io.Writer) zerolog.Logger {
	lvl, _ := parseLevel(cfg.LogLevel)
	if cfg.Debug && lvl > zerolog.DebugLevel {
		lvl = zerolog.DebugLevel
	}
	if !cfg.LogJSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("component", "vsupport").Logger()
}
