package app

import (
	"context"
	"log/slog"

	"ocl/internal/adapters/terminal"
	"ocl/internal/domain"
	"ocl/internal/services/config"
	"ocl/internal/services/kubeconfig"
	"ocl/internal/services/registry"
	"ocl/internal/services/session"
)

// App contains all application dependencies.
type App struct {
	// Core configuration dependencies (always needed)
	ConfigRepo     domain.ConfigRepository
	ConfigProvider domain.ConfigProvider
	Variables      *config.Variables

	// Cluster sources. The catalog is created on first use.
	Catalog  *CatalogFactory
	Registry *registry.Registry

	// Session handling
	Kubeconfig *kubeconfig.Manager
	Session    *session.Tool

	// File operations (needed by multiple commands)
	FileSystem domain.FileSystemAdapter

	// I/O dependencies
	Runner  domain.CommandRunner
	Tokens  domain.TokenReader
	Browser domain.BrowserOpener
	Printer *terminal.Printer

	// Logging
	Logger *slog.Logger

	// Configuration
	Config *Config
}

// Config holds application configuration.
type Config struct {
	LogLevel   slog.Level
	Verbose    bool
	Quiet      bool
	JSONLogs   bool
	ConfigPath string

	// levelSet is true once a flag picked the level; otherwise log_level applies.
	levelSet bool
}

// Option is a functional option for configuring the App.
type Option func(*Config)

// WithLogLevel sets the logging level.
func WithLogLevel(level slog.Level) Option {
	return func(cfg *Config) {
		cfg.LogLevel = level
		cfg.levelSet = true
	}
}

// WithVerbose enables verbose logging.
func WithVerbose(verbose bool) Option {
	return func(cfg *Config) {
		cfg.Verbose = verbose
		if verbose {
			cfg.LogLevel = slog.LevelDebug
			cfg.levelSet = true
		}
	}
}

// WithQuiet suppresses progress output and lowers logging to errors.
func WithQuiet(quiet bool) Option {
	return func(cfg *Config) {
		cfg.Quiet = quiet
		if quiet && !cfg.Verbose {
			cfg.LogLevel = slog.LevelError
			cfg.levelSet = true
		}
	}
}

// WithJSONLogs switches the log handler to JSON.
func WithJSONLogs(enabled bool) Option {
	return func(cfg *Config) {
		cfg.JSONLogs = enabled
	}
}

// WithConfigPath overrides the configuration file location.
func WithConfigPath(path string) Option {
	return func(cfg *Config) {
		cfg.ConfigPath = path
	}
}

// NewApp creates a new App with the given options.
func NewApp(ctx context.Context, opts ...Option) (*App, error) {
	cfg := &Config{
		LogLevel: slog.LevelWarn,
	}

	// Apply options.
	for _, opt := range opts {
		opt(cfg)
	}

	return NewAppWithConfig(ctx, cfg)
}

// Close releases resources opened on demand.
func (a *App) Close() error {
	if a.Catalog == nil {
		return nil
	}
	return a.Catalog.Close()
}
