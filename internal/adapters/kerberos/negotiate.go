// Package kerberos provides optional SPNEGO (HTTP Negotiate) authentication
// for the OAuth token flows.
package kerberos

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/jcmturner/gokrb5/v8/client"
	"github.com/jcmturner/gokrb5/v8/config"
	"github.com/jcmturner/gokrb5/v8/credentials"
	"github.com/jcmturner/gokrb5/v8/spnego"
)

const (
	defaultKrb5Config = "/etc/krb5.conf"
	negotiateScheme   = "negotiate"
	maxDrainBytes     = 64 << 10
)

// NegotiateTransport answers a "WWW-Authenticate: Negotiate" challenge once per
// request. Without a Kerberos client, or when the server does not challenge,
// requests pass through unchanged.
type NegotiateTransport struct {
	next         http.RoundTripper
	authenticate func(*http.Request) error
	logger       *slog.Logger
}

// NewNegotiateTransport wraps next. A nil client disables negotiation.
func NewNegotiateTransport(next http.RoundTripper, cl *client.Client, logger *slog.Logger) *NegotiateTransport {
	t := &NegotiateTransport{
		next:   next,
		logger: logger,
	}
	if cl != nil {
		t.authenticate = func(req *http.Request) error {
			// An empty SPN derives HTTP/<host> from the request URL.
			return spnego.SetSPNEGOHeader(cl, req, "")
		}
	}
	return t
}

// Wrap returns a transport wrapper for the HTTP adapter.
func Wrap(cl *client.Client, logger *slog.Logger) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return NewNegotiateTransport(next, cl, logger)
	}
}

// RoundTrip implements http.RoundTripper.
func (t *NegotiateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || t.authenticate == nil {
		return resp, err
	}
	if resp.StatusCode != http.StatusUnauthorized || !offersNegotiate(resp.Header) {
		return resp, nil
	}

	retry, err := replayable(req)
	if err != nil {
		t.logger.DebugContext(req.Context(), "Cannot replay request for negotiation", "error", err)
		return resp, nil
	}
	if err := t.authenticate(retry); err != nil {
		t.logger.DebugContext(req.Context(), "Negotiate authentication unavailable", "host", req.URL.Host, "error", err)
		return resp, nil
	}

	_, _ = io.CopyN(io.Discard, resp.Body, maxDrainBytes)
	resp.Body.Close()

	t.logger.DebugContext(req.Context(), "Retrying request with Negotiate authentication", "host", req.URL.Host)
	return t.next.RoundTrip(retry)
}

func offersNegotiate(header http.Header) bool {
	for _, challenge := range header.Values("WWW-Authenticate") {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(challenge)), negotiateScheme) {
			return true
		}
	}
	return false
}

func replayable(req *http.Request) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return retry, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("request body for %s cannot be rewound", req.URL.Host)
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	retry.Body = body
	return retry, nil
}

// ClientFromEnvironment builds a Kerberos client from the user's credential
// cache, honouring KRB5_CONFIG and KRB5CCNAME. It returns nil when no usable
// ticket is available.
func ClientFromEnvironment(logger *slog.Logger) *client.Client {
	confPath := os.Getenv("KRB5_CONFIG")
	if confPath == "" {
		confPath = defaultKrb5Config
	}
	cfg, err := config.Load(confPath)
	if err != nil {
		logger.Debug("Kerberos configuration not loaded", "path", confPath, "error", err)
		return nil
	}

	ccachePath := CCachePath(os.Getenv("KRB5CCNAME"), os.Getuid())
	ccache, err := credentials.LoadCCache(ccachePath)
	if err != nil {
		logger.Debug("Kerberos credential cache not loaded", "path", ccachePath, "error", err)
		return nil
	}

	cl, err := client.NewFromCCache(ccache, cfg, client.DisablePAFXFAST(true))
	if err != nil {
		logger.Debug("Kerberos client not created", "error", err)
		return nil
	}
	return cl
}

// CCachePath resolves a KRB5CCNAME value to a file path. Only FILE caches are
// supported.
func CCachePath(name string, uid int) string {
	name = strings.TrimPrefix(name, "FILE:")
	if name == "" {
		return fmt.Sprintf("/tmp/krb5cc_%d", uid)
	}
	return name
}
