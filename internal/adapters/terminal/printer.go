package terminal

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

//nolint:gochecknoglobals // Color palette shared by all printers
var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Printer writes user-facing status lines. Quiet mode suppresses everything
// but errors.
type Printer struct {
	out   io.Writer
	err   io.Writer
	quiet bool
}

// NewPrinter creates a printer writing status to out and errors to errOut.
func NewPrinter(out, errOut io.Writer, quiet bool) *Printer {
	return &Printer{out: out, err: errOut, quiet: quiet}
}

// Info prints an informational line.
func (p *Printer) Info(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Success prints a line in green.
func (p *Printer) Success(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, green(fmt.Sprintf(format, args...)))
}

// Warn prints a line in yellow.
func (p *Printer) Warn(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.err, yellow(fmt.Sprintf(format, args...)))
}

// Error prints a line in red. Errors are printed in quiet mode too.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.err, red(fmt.Sprintf(format, args...)))
}

// Item prints a listing entry. Listings are command output and ignore quiet mode.
func (p *Printer) Item(name string, details ...string) {
	if len(details) == 0 {
		fmt.Fprintln(p.out, name)
		return
	}
	fmt.Fprint(p.out, bold(name))
	for _, d := range details {
		fmt.Fprint(p.out, "\t", d)
	}
	fmt.Fprintln(p.out)
}
