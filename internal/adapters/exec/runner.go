// Package exec runs external tools such as the oc client.
package exec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	osexec "os/exec"
	"strings"

	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
)

// Runner implements domain.CommandRunner with os/exec.
type Runner struct {
	logger *slog.Logger
	stdin  io.Reader
	stderr io.Writer
}

// NewRunner creates a runner. When stderr is non-nil, diagnostics of commands
// that are not quiet are echoed to it as well as captured.
func NewRunner(logger *slog.Logger, stdin io.Reader, stderr io.Writer) *Runner {
	return &Runner{
		logger: logger,
		stdin:  stdin,
		stderr: stderr,
	}
}

// Run starts cmd and waits for it. Arguments are logged by name only.
func (r *Runner) Run(ctx context.Context, cmd domain.Command) (domain.CommandResult, error) {
	c := osexec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Env = append(os.Environ(), cmd.Env...)
	c.Stdin = r.stdin

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	if r.stderr != nil && !cmd.Quiet {
		c.Stderr = io.MultiWriter(&stderr, r.stderr)
	} else {
		c.Stderr = &stderr
	}

	r.logger.DebugContext(ctx, "Running command", "command", cmd.Name, "subcommand", subcommand(cmd.Args))

	err := c.Run()
	result := domain.CommandResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	var exitErr *osexec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		if result.ExitCode < 0 && ctx.Err() != nil {
			return result, ctx.Err()
		}
		r.logger.DebugContext(ctx, "Command exited with error", "command", cmd.Name, "exit_code", result.ExitCode)
		return result, nil
	default:
		return result, cerrors.NewToolUnavailableError(cmd.Name, err)
	}
}

func subcommand(args []string) string {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}
