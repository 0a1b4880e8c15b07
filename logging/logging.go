// Package logging builds the slog logger used across the mediator runtime.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/next-trace/scg-mediator/config"
)

// New returns a logger writing to the configured output in the configured format.
func New(cfg config.LogConfig) *slog.Logger {
	var w io.Writer = os.Stderr
	if cfg.Output == "stdout" {
		w = os.Stdout
	}

	return NewWithWriter(cfg, w)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps debug, info, warn and error to slog levels. Unknown values yield info.
func ParseLevel(s string) slog.Level {
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
