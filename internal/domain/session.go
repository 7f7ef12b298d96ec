package domain

import "context"

// SessionProbe checks whether a usable session already exists for a cluster.
type SessionProbe interface {
	IsSessionValid(ctx context.Context, cluster Cluster) (bool, error)
}

// SessionEstablisher materializes a token into a local session.
type SessionEstablisher interface {
	Login(ctx context.Context, cluster Cluster, token string) error
	SwitchProject(ctx context.Context, cluster Cluster, project string) error
	CurrentProject(ctx context.Context, cluster Cluster) (string, error)
}

// KubeconfigInspector locates and inspects per-cluster session files.
type KubeconfigInspector interface {
	SessionFile(cluster Cluster) (string, error)
	HasCredentials(ctx context.Context, path string) (bool, error)
	CurrentNamespace(ctx context.Context, path string) (string, error)
}

// Command is a subprocess invocation. Env entries are appended to the
// current process environment. Quiet commands keep their diagnostics to the
// captured result.
type Command struct {
	Name  string
	Args  []string
	Env   []string
	Quiet bool
}

// CommandResult is the outcome of a subprocess that was started.
type CommandResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// CommandRunner runs subprocesses. A non-zero exit is reported in the result;
// only launch failures are returned as errors.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (CommandResult, error)
}
