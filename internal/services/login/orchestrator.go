// Package login drives a cluster login from lock acquisition to an
// established oc session.
package login

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
	"ocl/internal/logging"
	"ocl/internal/services/lock"
)

const (
	// DefaultLockLifetime bounds how long a crashed holder can block others.
	DefaultLockLifetime = 60 * time.Second
	// DefaultLockTimeout is how long a login waits for the lock.
	DefaultLockTimeout = 65 * time.Second
)

// Settings tune the lock around the critical section.
type Settings struct {
	LockLifetime   time.Duration
	LockTimeout    time.Duration
	PerClusterLock bool
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		LockLifetime: DefaultLockLifetime,
		LockTimeout:  DefaultLockTimeout,
	}
}

// Dependencies are the collaborators of an Orchestrator.
type Dependencies struct {
	Locker   domain.Locker
	Probe    domain.SessionProbe
	Selector domain.IdpSelector
	Acquirer domain.TokenAcquirer
	Session  domain.SessionEstablisher
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver registers an observer of state transitions.
func WithObserver(observer Observer) Option {
	return func(o *Orchestrator) {
		o.observer = observer
	}
}

// Orchestrator runs the login state machine.
type Orchestrator struct {
	deps     Dependencies
	settings Settings
	observer Observer
	logger   *slog.Logger
}

// NewOrchestrator creates a new login orchestrator.
func NewOrchestrator(deps Dependencies, settings Settings, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		deps:     deps,
		settings: settings,
		observer: noopObserver{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Request describes one login.
type Request struct {
	Cluster domain.Cluster
	// IDPs is the ordered candidate list. domain.ManualIDP stops discovery.
	IDPs []string
	// Refresh skips the existing session check.
	Refresh bool
	// Project is switched to after a successful login when set.
	Project string
}

// Result describes a successful login.
type Result struct {
	Cluster domain.Cluster
	// Reused is set when an existing session was still valid.
	Reused bool
	// Strategy is the token strategy that succeeded; nil when Reused.
	Strategy domain.TokenStrategy
	// ProjectErr holds a failed project switch. The login itself succeeded.
	ProjectErr error
}

// Login authenticates against req.Cluster. The lock is held from the session
// check until the session tool has finished and is released exactly once on
// every path.
func (o *Orchestrator) Login(ctx context.Context, req Request) (*Result, error) {
	logger := logging.WithCluster(o.logger, req.Cluster.Name, req.Cluster.ServerURL)
	o.enter(ctx, logger, req.Cluster, Idle)

	result, err := o.locked(ctx, logger, req)
	if err != nil {
		o.enter(ctx, logger, req.Cluster, Failed)
		return nil, err
	}
	o.enter(ctx, logger, req.Cluster, Done)

	if req.Project != "" {
		if switchErr := o.deps.Session.SwitchProject(ctx, req.Cluster, req.Project); switchErr != nil {
			logger.WarnContext(ctx, "Project switch failed, continuing without it", "project", req.Project, "error", switchErr)
			result.ProjectErr = switchErr
		}
	}
	return result, nil
}

func (o *Orchestrator) locked(ctx context.Context, logger *slog.Logger, req Request) (*Result, error) {
	o.enter(ctx, logger, req.Cluster, AcquiringLock)

	name := lock.Name(req.Cluster.Name, o.settings.PerClusterLock)
	lease, err := o.deps.Locker.Acquire(ctx, name, o.settings.LockLifetime, o.settings.LockTimeout)
	if err != nil {
		return nil, err
	}

	release := sync.OnceValue(lease.Release)
	// Covers panics; the error of the regular release is reported below.
	defer func() { _ = release() }()

	result, err := o.critical(ctx, logger, req)

	o.enter(ctx, logger, req.Cluster, ReleasingLock)
	if releaseErr := release(); releaseErr != nil {
		logger.WarnContext(ctx, "Failed to release login lock", "lock", name, "error", releaseErr)
	}
	return result, err
}

func (o *Orchestrator) critical(ctx context.Context, logger *slog.Logger, req Request) (*Result, error) {
	if !req.Refresh {
		o.enter(ctx, logger, req.Cluster, CheckingExistingSession)
		valid, err := o.deps.Probe.IsSessionValid(ctx, req.Cluster)
		if err != nil {
			return nil, err
		}
		if valid {
			o.enter(ctx, logger, req.Cluster, SessionValid)
			return &Result{Cluster: req.Cluster, Reused: true}, nil
		}
	}

	token, strategy, err := o.acquire(ctx, logger, req)
	if err != nil {
		return nil, err
	}

	o.enter(ctx, logger, req.Cluster, LoggingIn)
	if err := o.deps.Session.Login(ctx, req.Cluster, token); err != nil {
		return nil, err
	}

	return &Result{Cluster: req.Cluster, Strategy: strategy}, nil
}

// acquire picks a strategy and drives it to a token. A failed IDP is retried
// with the candidates after it; manual entry is used after a failure only
// when the remaining candidates ask for it.
func (o *Orchestrator) acquire(ctx context.Context, logger *slog.Logger, req Request) (string, domain.TokenStrategy, error) {
	if req.Cluster.Hypershift {
		return o.attempt(ctx, logger, req.Cluster, domain.HypershiftStrategy{})
	}

	candidates := req.IDPs
	var failures []error
	for {
		o.enter(ctx, logger, req.Cluster, SelectingIdp)
		idp, ok := o.deps.Selector.SelectIdp(ctx, req.Cluster.ConsoleURL, candidates)
		if err := ctx.Err(); err != nil {
			return "", nil, cerrors.Join(append(failures, err)...)
		}

		var strategy domain.TokenStrategy
		switch {
		case ok:
			strategy = domain.NegotiatedIdpStrategy{IDP: idp}
		case len(failures) == 0 || slices.Contains(candidates, domain.ManualIDP):
			strategy = domain.ManualStrategy{}
		default:
			return "", nil, cerrors.Join(failures...)
		}

		token, chosen, err := o.attempt(ctx, logger, req.Cluster, strategy)
		if err == nil {
			return token, chosen, nil
		}
		failures = append(failures, err)

		if !ok || ctx.Err() != nil {
			return "", nil, cerrors.Join(failures...)
		}
		next := slices.Index(candidates, idp) + 1
		if next == 0 || next == len(candidates) {
			return "", nil, cerrors.Join(failures...)
		}
		candidates = candidates[next:]
		logger.WarnContext(ctx, "Identity provider failed, trying the next candidate", "idp", idp, "error", err)
	}
}

func (o *Orchestrator) attempt(
	ctx context.Context,
	logger *slog.Logger,
	cluster domain.Cluster,
	strategy domain.TokenStrategy,
) (string, domain.TokenStrategy, error) {
	o.enter(ctx, logger, cluster, AcquiringToken)

	var idp string
	switch s := strategy.(type) {
	case domain.HypershiftStrategy, domain.ManualStrategy:
	case domain.NegotiatedIdpStrategy:
		idp = s.IDP
	default:
		return "", nil, fmt.Errorf("unsupported token strategy %T", strategy)
	}
	logging.WithStrategy(logger, strategy.String(), idp).DebugContext(ctx, "Acquiring token")

	token, err := o.deps.Acquirer.AcquireToken(ctx, cluster, strategy)
	if err != nil {
		return "", nil, err
	}
	return token, strategy, nil
}

func (o *Orchestrator) enter(ctx context.Context, logger *slog.Logger, cluster domain.Cluster, state State) {
	logger.DebugContext(ctx, "Login state changed", "state", state.String())
	o.observer.StateChanged(cluster, state)
}
