package oauth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	httpadapter "ocl/internal/adapters/http"
	"ocl/internal/domain"
	"ocl/internal/testutil"
)

const (
	testConsoleURL    = "https://console-openshift-console.apps.prod1.example.com"
	testOAuthHost     = "oauth-openshift.apps.prod1.example.com"
	testHypershiftURL = "https://console-openshift-console.apps.hs1.hcp.example.com"
	testHypershiftOA  = "oauth.hcp.example.com"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// routeTo sends every request to server regardless of the requested host.
func routeTo(t *testing.T, server *httptest.Server, hook func(*http.Request) error) func(http.RoundTripper) http.RoundTripper {
	t.Helper()
	target, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if hook != nil {
				if err := hook(req); err != nil {
					return nil, err
				}
			}
			req = req.Clone(req.Context())
			req.URL.Host = target.Host
			return next.RoundTrip(req)
		})
	}
}

func newProbeAdapter(t *testing.T, server *httptest.Server, hook func(*http.Request) error) domain.HTTPAdapter {
	t.Helper()
	return httpadapter.NewAdapter(2*time.Second, true, testutil.Logger(),
		httpadapter.WithRetryCount(0),
		httpadapter.WithoutRedirects(),
		httpadapter.WithTransportWrapper(routeTo(t, server, hook)),
	)
}

func newSessionFactory(t *testing.T, server *httptest.Server) SessionFactory {
	t.Helper()
	return func() domain.HTTPAdapter {
		return httpadapter.NewAdapter(2*time.Second, true, testutil.Logger(),
			httpadapter.WithRetryCount(0),
			httpadapter.WithTransportWrapper(routeTo(t, server, nil)),
		)
	}
}
