package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
	"ocl/internal/logging"
	"ocl/internal/services/login"
	"ocl/internal/services/session"
)

// CurrentCluster is the cluster argument that reuses the logged-in
// environment of the calling shell.
const CurrentCluster = "."

// Authenticator runs the login state machine.
type Authenticator interface {
	Login(ctx context.Context, req login.Request) (*login.Result, error)
}

// SessionEnvironment describes the environment of a cluster session.
type SessionEnvironment interface {
	Environment(cluster domain.Cluster) ([]string, error)
}

// LoginCommand resolves a cluster and logs into it or opens its console.
type LoginCommand struct {
	registry      domain.ClusterRegistry
	authenticator Authenticator
	session       domain.SessionEstablisher
	environment   SessionEnvironment
	browser       domain.BrowserOpener
	lookupEnv     func(string) (string, bool)
	logger        *slog.Logger
}

// NewLoginCommand creates a new login command.
func NewLoginCommand(
	registry domain.ClusterRegistry,
	authenticator Authenticator,
	session domain.SessionEstablisher,
	environment SessionEnvironment,
	browser domain.BrowserOpener,
	logger *slog.Logger,
) *LoginCommand {
	return &LoginCommand{
		registry:      registry,
		authenticator: authenticator,
		session:       session,
		environment:   environment,
		browser:       browser,
		lookupEnv:     os.LookupEnv,
		logger:        logging.WithOperation(logger, "login"),
	}
}

// LoginRequest contains the parameters for the login command.
type LoginRequest struct {
	Cluster       string
	Project       string
	IDPs          []string
	Refresh       bool
	OpenInBrowser bool
}

// LoginResult contains the result of the login command.
type LoginResult struct {
	Cluster    domain.Cluster
	ConsoleURL string
	// Project is empty when none was requested or switching to it failed.
	Project     string
	ProjectErr  error
	Environment []string
	Reused      bool
	Strategy    string
	Opened      bool
}

// Execute runs the login command.
func (c *LoginCommand) Execute(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	name := req.Cluster
	project := req.Project
	current := req.OpenInBrowser && name == CurrentCluster

	if current {
		value, ok := c.lookupEnv(session.EnvClusterName)
		if !ok || value == "" {
			return nil, cerrors.NewConfigurationError(session.EnvClusterName, "", "environment variable is not set", nil)
		}
		name = value
	}
	if name == "" {
		return nil, cerrors.NewValidationError("cluster", "", "required", "cluster name is required")
	}

	cluster, err := c.registry.Find(ctx, name)
	if err != nil {
		return nil, err
	}

	if current {
		project, err = c.session.CurrentProject(ctx, cluster)
		if err != nil {
			c.logger.WarnContext(ctx, "Could not determine the current project", "cluster", cluster.Name, "error", err)
			project = ""
		}
	}

	result := &LoginResult{
		Cluster:    cluster,
		ConsoleURL: ConsoleURL(cluster, project),
		Project:    project,
	}

	if req.OpenInBrowser {
		if err := c.browser.Open(result.ConsoleURL); err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", result.ConsoleURL, err)
		}
		result.Opened = true
		return result, nil
	}

	outcome, err := c.authenticator.Login(ctx, login.Request{
		Cluster: cluster,
		IDPs:    req.IDPs,
		Refresh: req.Refresh,
		Project: project,
	})
	if err != nil {
		return nil, err
	}

	result.Reused = outcome.Reused
	if outcome.Strategy != nil {
		result.Strategy = outcome.Strategy.String()
	}
	if outcome.ProjectErr != nil {
		result.ProjectErr = outcome.ProjectErr
		result.Project = ""
		result.ConsoleURL = ConsoleURL(cluster, "")
	}

	result.Environment, err = c.environment.Environment(cluster)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConsoleURL returns the console page of cluster, or of project on it.
func ConsoleURL(cluster domain.Cluster, project string) string {
	base := strings.TrimRight(cluster.ConsoleURL, "/")
	if project == "" {
		return base
	}
	return base + "/k8s/cluster/projects/" + url.PathEscape(project)
}
