package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TokenEnvVar overrides interactive token entry, e.g. in CI.
const TokenEnvVar = "OCL_TOKEN"

// ErrNonInteractive is returned when input is required but stdin is not a terminal.
var ErrNonInteractive = errors.New("non-interactive terminal")

// Adapter handles obscured token input from terminal.
type Adapter struct {
	stdin  io.Reader
	stderr io.Writer
}

// NewAdapter creates a new terminal adapter.
func NewAdapter(stdin io.Reader, stderr io.Writer) *Adapter {
	return &Adapter{
		stdin:  stdin,
		stderr: stderr,
	}
}

// ReadToken reads a token from the terminal with echo disabled.
func (a *Adapter) ReadToken(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if envToken := os.Getenv(TokenEnvVar); envToken != "" {
		return strings.TrimSpace(envToken), nil
	}

	if !a.IsInteractive() {
		return "", fmt.Errorf("cannot read token: %w (set %s instead)", ErrNonInteractive, TokenEnvVar)
	}

	fmt.Fprint(a.stderr, prompt)

	file := a.stdin.(*os.File)
	token, err := term.ReadPassword(int(file.Fd()))
	fmt.Fprintln(a.stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(token)), nil
}

// IsInteractive returns true if the terminal is interactive.
func (a *Adapter) IsInteractive() bool {
	if file, ok := a.stdin.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
