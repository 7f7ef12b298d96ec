package domain

import (
	"context"
	"errors"
	"net/url"
)

// ManualIDP is the IDP list sentinel that stops automatic discovery and
// falls back to manual token entry.
const ManualIDP = "manual"

// TokenStrategy is the closed set of ways to obtain a bearer token.
// Implementations are HypershiftStrategy, NegotiatedIdpStrategy and ManualStrategy.
type TokenStrategy interface {
	String() string
	tokenStrategy()
}

// HypershiftStrategy requests a token from the hypershift token endpoint.
type HypershiftStrategy struct{}

// NegotiatedIdpStrategy scrapes a token through the OAuth authorize flow of an IDP.
type NegotiatedIdpStrategy struct {
	IDP string
}

// ManualStrategy asks the user to paste a token.
type ManualStrategy struct{}

func (HypershiftStrategy) tokenStrategy()    {}
func (NegotiatedIdpStrategy) tokenStrategy() {}
func (ManualStrategy) tokenStrategy()        {}

func (HypershiftStrategy) String() string    { return "hypershift" }
func (NegotiatedIdpStrategy) String() string { return "negotiated-idp" }
func (ManualStrategy) String() string        { return "manual" }

// IdpSelector picks the first identity provider the cluster's OAuth server accepts.
type IdpSelector interface {
	SelectIdp(ctx context.Context, consoleURL string, candidates []string) (string, bool)
}

// TokenAcquirer drives one token strategy to a bearer token.
type TokenAcquirer interface {
	AcquireToken(ctx context.Context, cluster Cluster, strategy TokenStrategy) (string, error)
}

// TokenReader handles obscured token input from users.
type TokenReader interface {
	ReadToken(ctx context.Context, prompt string) (string, error)
	IsInteractive() bool
}

// BrowserOpener opens a URL in the user's browser.
type BrowserOpener interface {
	Open(url string) error
}

// ErrElementNotFound is returned by an HTMLScraper when nothing matches.
var ErrElementNotFound = errors.New("element not found")

// Form is a serialized HTML form.
type Form struct {
	Action string
	Method string
	Fields url.Values
}

// HTMLScraper extracts the pieces of an HTML page the token flows depend on.
type HTMLScraper interface {
	// SerializeForm returns the page's form controls as a browser would submit them.
	SerializeForm(body []byte) (Form, error)
	// ExtractText returns the text of the first element matching selector.
	ExtractText(body []byte, selector string) (string, error)
}
