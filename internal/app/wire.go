package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	"ocl/internal/adapters/browser"
	"ocl/internal/adapters/exec"
	"ocl/internal/adapters/filesystem"
	"ocl/internal/adapters/html"
	"ocl/internal/adapters/http"
	"ocl/internal/adapters/kerberos"
	"ocl/internal/adapters/terminal"
	"ocl/internal/domain"
	"ocl/internal/logging"
	"ocl/internal/services/config"
	"ocl/internal/services/kubeconfig"
	"ocl/internal/services/lock"
	"ocl/internal/services/login"
	"ocl/internal/services/oauth"
	"ocl/internal/services/registry"
	"ocl/internal/services/session"
)

const (
	// probeTimeout bounds IDP probes and catalog queries.
	probeTimeout = 10 * time.Second
	// tokenTimeout bounds each request of a token acquisition.
	tokenTimeout = 30 * time.Second
)

// NewAppWithConfig creates a new App with the given configuration, wiring all dependencies.
func NewAppWithConfig(ctx context.Context, cfg *Config) (*App, error) {
	// Create filesystem adapter.
	fs := filesystem.New()

	configProvider := config.NewProvider(fs, cfg.ConfigPath)
	configPath, err := configProvider.GetConfigPath()
	if err != nil {
		return nil, err
	}

	// The configuration file may set the log level, so it is read before
	// the logger exists.
	v := config.NewViper(configPath, slog.New(slog.DiscardHandler))
	if !cfg.levelSet {
		cfg.LogLevel = logging.ParseLevel(v.GetString(config.VarLogLevel), cfg.LogLevel)
	}
	logger := newLogger(cfg)

	configRepo, err := config.NewRepository(fs, configPath, logger)
	if err != nil {
		return nil, err
	}

	runner := exec.NewRunner(logger, os.Stdin, os.Stderr)
	tokens := terminal.NewAdapter(os.Stdin, os.Stderr)
	prompter := terminal.NewPrompter(os.Stdin, os.Stderr, tokens.IsInteractive)
	vars := config.NewVariables(v, runner, prompter, logger)

	kubeconfigDir, err := configProvider.GetKubeconfigDir()
	if err != nil {
		return nil, err
	}
	kubeconfigManager, err := kubeconfig.NewManager(fs, kubeconfigDir, logger)
	if err != nil {
		return nil, err
	}

	binary, err := vars.GetDefault(ctx, config.VarOcBinary, session.DefaultBinary)
	if err != nil {
		return nil, err
	}
	sessionTool := session.NewTool(binary, runner, kubeconfigManager, logger)

	catalogFactory := NewCatalogFactory(configProvider, vars, logger)
	clusterRegistry := registry.New(catalogFactory, configRepo, vars, logger)

	logger.DebugContext(ctx, "Initializing ocl with configuration",
		"logLevel", cfg.LogLevel.String(),
		"verbose", cfg.Verbose,
		"configPath", configPath,
		"ocBinary", binary)

	return &App{
		ConfigRepo:     configRepo,
		ConfigProvider: configProvider,
		Variables:      vars,
		Catalog:        catalogFactory,
		Registry:       clusterRegistry,
		Kubeconfig:     kubeconfigManager,
		Session:        sessionTool,
		FileSystem:     fs,
		Runner:         runner,
		Tokens:         tokens,
		Browser:        browser.NewAdapter(os.Stderr, os.Stderr),
		Printer:        terminal.NewPrinter(os.Stdout, os.Stderr, cfg.Quiet),
		Logger:         logger,
		Config:         cfg,
	}, nil
}

func newLogger(cfg *Config) *slog.Logger {
	if cfg.JSONLogs {
		return logging.NewJSONLogger(cfg.LogLevel)
	}
	return logging.NewLogger(cfg.LogLevel)
}

// newLoginAdapter creates an HTTP adapter for the login flow. Transport
// failures there surface to the orchestrator on the first attempt; OAuth
// codes in particular are single use.
func newLoginAdapter(timeout time.Duration, logger *slog.Logger, opts ...http.Option) *http.Adapter {
	return http.NewAdapter(timeout, false, logger, append([]http.Option{http.WithRetryCount(0)}, opts...)...)
}

// NewAuthenticator wires a login orchestrator. The Kerberos ticket cache is
// read once; without a ticket the negotiate transport stays inert.
func (a *App) NewAuthenticator(settings login.Settings, observer login.Observer) *login.Orchestrator {
	locker := lock.NewFileLocker(a.FileSystem, a.ConfigProvider.GetLockDir(), a.Logger)

	probe := newLoginAdapter(probeTimeout, a.Logger, http.WithoutRedirects())
	selector := oauth.NewSelector(probe, a.Logger)

	krb := kerberos.ClientFromEnvironment(a.Logger)
	newSession := func() domain.HTTPAdapter {
		return newLoginAdapter(tokenTimeout, a.Logger, http.WithTransportWrapper(kerberos.Wrap(krb, a.Logger)))
	}
	acquirer := oauth.NewAcquirer(newSession, html.NewScraper(), a.Tokens, a.Browser, a.Logger)

	opts := []login.Option{}
	if observer != nil {
		opts = append(opts, login.WithObserver(observer))
	}

	return login.NewOrchestrator(login.Dependencies{
		Locker:   locker,
		Probe:    a.Session,
		Selector: selector,
		Acquirer: acquirer,
		Session:  a.Session,
	}, settings, a.Logger, opts...)
}
