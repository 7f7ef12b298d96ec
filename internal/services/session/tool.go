// Package session drives the oc client: it checks for an existing login and
// turns a bearer token into a session stored in a per-cluster kubeconfig.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
)

// DefaultBinary is the session tool looked up on PATH.
const DefaultBinary = "oc"

// Environment variables exported to the session tool and every tool started
// from the logged-in environment.
const (
	EnvKubeconfig     = "KUBECONFIG"
	EnvClusterName    = "OCL_CLUSTER_NAME"
	EnvClusterConsole = "OCL_CLUSTER_CONSOLE"
)

// Tool implements domain.SessionProbe and domain.SessionEstablisher on top
// of the oc binary.
type Tool struct {
	binary     string
	runner     domain.CommandRunner
	kubeconfig domain.KubeconfigInspector
	logger     *slog.Logger
}

// NewTool creates a session tool. An empty binary means DefaultBinary.
func NewTool(binary string, runner domain.CommandRunner, kubeconfig domain.KubeconfigInspector, logger *slog.Logger) *Tool {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Tool{
		binary:     binary,
		runner:     runner,
		kubeconfig: kubeconfig,
		logger:     logger,
	}
}

// Environment returns the variables that bind a process to cluster's session.
func (t *Tool) Environment(cluster domain.Cluster) ([]string, error) {
	path, err := t.kubeconfig.SessionFile(cluster)
	if err != nil {
		return nil, err
	}
	return []string{
		EnvKubeconfig + "=" + path,
		EnvClusterName + "=" + cluster.Name,
		EnvClusterConsole + "=" + cluster.ConsoleURL,
	}, nil
}

// IsSessionValid reports whether the cluster's session file holds a working
// login. Files without credentials are rejected without starting oc.
func (t *Tool) IsSessionValid(ctx context.Context, cluster domain.Cluster) (bool, error) {
	path, err := t.kubeconfig.SessionFile(cluster)
	if err != nil {
		return false, err
	}

	hasCredentials, err := t.kubeconfig.HasCredentials(ctx, path)
	if err != nil {
		t.logger.DebugContext(ctx, "Cannot inspect session file, asking oc", "path", path, "error", err)
	} else if !hasCredentials {
		t.logger.DebugContext(ctx, "No stored credentials", "cluster", cluster.Name, "path", path)
		return false, nil
	}

	result, err := t.check(ctx, cluster, "cluster-info")
	if err != nil {
		return false, err
	}
	return result.ExitCode == 0, nil
}

// Login stores token as the session for cluster.
func (t *Tool) Login(ctx context.Context, cluster domain.Cluster, token string) error {
	result, err := t.run(ctx, cluster, "login", "--token="+token, "--server="+cluster.ServerURL)
	if err != nil {
		return cerrors.NewLoginError(cluster.Name, err)
	}
	if result.ExitCode != 0 {
		command := t.describe("login", "--token=<redacted>", "--server="+cluster.ServerURL)
		stderr := string(result.Stderr)
		if token != "" {
			stderr = strings.ReplaceAll(stderr, token, "<redacted>")
		}
		return cerrors.NewLoginError(cluster.Name, cerrors.NewToolError(command, result.ExitCode, stderr))
	}

	t.logger.DebugContext(ctx, "Logged in", "cluster", cluster.Name, "server", cluster.ServerURL)
	return nil
}

// SwitchProject makes project the active namespace of the cluster's session.
func (t *Tool) SwitchProject(ctx context.Context, cluster domain.Cluster, project string) error {
	result, err := t.run(ctx, cluster, "project", project)
	if err != nil {
		return cerrors.NewProjectSwitchError(cluster.Name, project, err)
	}
	if result.ExitCode != 0 {
		return cerrors.NewProjectSwitchError(cluster.Name, project,
			cerrors.NewToolError(t.describe("project", project), result.ExitCode, string(result.Stderr)))
	}
	return nil
}

// CurrentProject returns the active namespace of the cluster's session. The
// session file is read first; oc is only asked when it names no namespace.
func (t *Tool) CurrentProject(ctx context.Context, cluster domain.Cluster) (string, error) {
	path, err := t.kubeconfig.SessionFile(cluster)
	if err != nil {
		return "", err
	}
	namespace, err := t.kubeconfig.CurrentNamespace(ctx, path)
	if err != nil {
		t.logger.DebugContext(ctx, "Cannot read namespace from session file, asking oc", "path", path, "error", err)
	} else if namespace != "" {
		return namespace, nil
	}

	result, err := t.check(ctx, cluster, "project", "-q")
	if err != nil {
		return "", err
	}
	if result.ExitCode != 0 {
		return "", cerrors.NewToolError(t.describe("project", "-q"), result.ExitCode, string(result.Stderr))
	}
	return strings.TrimSpace(string(result.Stdout)), nil
}

func (t *Tool) run(ctx context.Context, cluster domain.Cluster, args ...string) (domain.CommandResult, error) {
	return t.start(ctx, cluster, false, args)
}

// check runs a query whose failure is an answer, not something to show the user.
func (t *Tool) check(ctx context.Context, cluster domain.Cluster, args ...string) (domain.CommandResult, error) {
	return t.start(ctx, cluster, true, args)
}

func (t *Tool) start(ctx context.Context, cluster domain.Cluster, quiet bool, args []string) (domain.CommandResult, error) {
	env, err := t.Environment(cluster)
	if err != nil {
		return domain.CommandResult{}, err
	}
	return t.runner.Run(ctx, domain.Command{
		Name:  t.binary,
		Args:  args,
		Env:   env,
		Quiet: quiet,
	})
}

func (t *Tool) describe(args ...string) string {
	return fmt.Sprintf("%s %s", t.binary, strings.Join(args, " "))
}
