package logging

import (
	"log/slog"
	"strings"
)

// LevelFromFlags maps the CLI verbosity flags to a log level.
// Verbose wins over quiet.
func LevelFromFlags(verbose, quiet bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case quiet:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ParseLevel converts a configured level name, falling back to def.
func ParseLevel(name string, def slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return def
	}
}

// WithCluster adds cluster-related fields to the logger
func WithCluster(logger *slog.Logger, name, serverURL string) *slog.Logger {
	return logger.With(
		slog.String("cluster", name),
		slog.String("server_url", serverURL),
	)
}

// WithStrategy adds token strategy fields to the logger
func WithStrategy(logger *slog.Logger, strategy, idp string) *slog.Logger {
	if idp == "" {
		return logger.With(slog.String("strategy", strategy))
	}
	return logger.With(
		slog.String("strategy", strategy),
		slog.String("idp", idp),
	)
}

// WithOperation adds operation-related fields to the logger
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String("operation", operation))
}
