// Package logging provides centralized logger creation for the ocl application.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger creates a standard text logger for CLI usage.
func NewLogger(level slog.Level) *slog.Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo creates a text logger writing to w.
func NewLoggerTo(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewJSONLogger creates a JSON logger on stderr for machine consumption.
func NewJSONLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTestLogger creates a silent logger for tests.
func NewTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError + 1, // Higher than any real level = silent
	}
	return slog.New(slog.NewTextHandler(io.Discard, opts))
}
