package terminal

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// Prompter asks for configuration values that were not provided any other way.
type Prompter struct {
	stdin       io.ReadCloser
	stdout      io.WriteCloser
	interactive func() bool
}

// NewPrompter creates a prompter bound to the given terminal streams.
func NewPrompter(stdin io.ReadCloser, stdout io.WriteCloser, interactive func() bool) *Prompter {
	return &Prompter{
		stdin:       stdin,
		stdout:      stdout,
		interactive: interactive,
	}
}

// Prompt reads one value. Secret values are masked.
func (p *Prompter) Prompt(label string, secret bool) (string, error) {
	if p.interactive != nil && !p.interactive() {
		return "", fmt.Errorf("cannot prompt for %s: %w", label, ErrNonInteractive)
	}

	prompt := promptui.Prompt{
		Label:  label,
		Stdin:  p.stdin,
		Stdout: p.stdout,
	}
	if secret {
		prompt.Mask = '*'
	}

	result, err := prompt.Run()
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrEOF) {
		return "", ErrAborted
	}
	return result, err
}
