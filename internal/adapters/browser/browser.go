// Package browser opens URLs in the user's default web browser.
package browser

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

// Adapter implements domain.BrowserOpener.
type Adapter struct {
	openURL func(string) error
}

// NewAdapter creates a browser adapter. Browser launcher chatter is
// redirected to the given writers.
func NewAdapter(stdout, stderr io.Writer) *Adapter {
	browser.Stdout = stdout
	browser.Stderr = stderr
	return &Adapter{openURL: browser.OpenURL}
}

// Open opens url in the default browser.
func (a *Adapter) Open(url string) error {
	if err := a.openURL(url); err != nil {
		return fmt.Errorf("failed to open browser at %s: %w", url, err)
	}
	return nil
}
