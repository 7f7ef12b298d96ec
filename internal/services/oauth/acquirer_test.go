package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ocl/internal/adapters/html"
	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
	"ocl/internal/mocks"
	"ocl/internal/testutil"
)

const authorizePage = `<html><body>
<form action="/oauth/token/display" method="post">
  <input type="hidden" name="code" value="authcode-1">
  <input type="hidden" name="csrf" value="csrf-1">
  <input type="submit" value="Display Token">
</form></body></html>`

func tokenPage(token string) string {
	return fmt.Sprintf(`<html><body><h2>Your API token is</h2><code>%s</code></body></html>`, token)
}

func newTestAcquirer(t *testing.T, server *httptest.Server, tokens domain.TokenReader, browser domain.BrowserOpener) *Acquirer {
	t.Helper()
	return NewAcquirer(newSessionFactory(t, server), html.NewScraper(), tokens, browser, testutil.Logger(),
		WithPolling(5*time.Millisecond, 2*time.Second))
}

func TestAcquirer_NegotiatedIdp(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/authorize":
			q := r.URL.Query()
			assert.Equal(t, ClientID, q.Get("client_id"))
			assert.Equal(t, "kerberos-a", q.Get("idp"))
			assert.Equal(t, "https://"+testOAuthHost+"/oauth/token/display", q.Get("redirect_uri"))
			assert.Equal(t, "code", q.Get("response_type"))
			fmt.Fprint(w, authorizePage)
		case "/oauth/token/display":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "authcode-1", r.PostForm.Get("code"))
			assert.Equal(t, "csrf-1", r.PostForm.Get("csrf"))
			fmt.Fprint(w, tokenPage("\n  sha256~negotiated  \n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	acquirer := newTestAcquirer(t, server, nil, nil)
	cluster := domain.Cluster{Name: "prod1", ConsoleURL: testConsoleURL}

	token, err := acquirer.AcquireToken(context.Background(), cluster, domain.NegotiatedIdpStrategy{IDP: "kerberos-a"})
	require.NoError(t, err)
	assert.Equal(t, "sha256~negotiated", token)
}

func TestAcquirer_NegotiatedIdp_PollsThroughApprovalPage(t *testing.T) {
	var approvals atomic.Int32
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/authorize":
			fmt.Fprint(w, authorizePage)
		case "/oauth/token/display":
			fmt.Fprint(w, `<form action="/oauth/authorize/approve" method="post">
				<input type="hidden" name="then" value="/oauth/token/display">
				<input type="checkbox" name="scope" value="user:full" checked>
				<input type="submit" name="approve" value="Allow">
			</form>`)
		case "/oauth/authorize/approve":
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "user:full", r.PostForm.Get("scope"))
			assert.Empty(t, r.PostForm.Get("approve"))
			if approvals.Add(1) < 2 {
				// Not ready yet, ask again.
				fmt.Fprint(w, `<form action="/oauth/authorize/approve" method="post">
					<input type="hidden" name="scope" value="user:full"></form>`)
				return
			}
			fmt.Fprint(w, tokenPage("sha256~approved"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	acquirer := newTestAcquirer(t, server, nil, nil)
	cluster := domain.Cluster{Name: "prod1", ConsoleURL: testConsoleURL}

	token, err := acquirer.AcquireToken(context.Background(), cluster, domain.NegotiatedIdpStrategy{IDP: "kerberos-a"})
	require.NoError(t, err)
	assert.Equal(t, "sha256~approved", token)
	assert.Equal(t, int32(2), approvals.Load())
}

func TestAcquirer_NegotiatedIdp_PollTimeout(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<form action="/again" method="post"><input name="x" value="1"></form>`)
	}))
	defer server.Close()

	acquirer := NewAcquirer(newSessionFactory(t, server), html.NewScraper(), nil, nil, testutil.Logger(),
		WithPolling(5*time.Millisecond, 100*time.Millisecond))
	cluster := domain.Cluster{Name: "prod1", ConsoleURL: testConsoleURL}

	_, err := acquirer.AcquireToken(context.Background(), cluster, domain.NegotiatedIdpStrategy{IDP: "kerberos-a"})
	require.Error(t, err)
	assert.True(t, cerrors.IsTokenRetrieval(err))
	assert.True(t, cerrors.IsParse(err))
	assert.Contains(t, err.Error(), "did not appear")
}

func TestAcquirer_NegotiatedIdp_HTTPErrorIsFatal(t *testing.T) {
	tests := []struct {
		name       string
		failPath   string
		wantStatus int
		wantMethod string
	}{
		{name: "authorize", failPath: "/oauth/authorize", wantStatus: http.StatusForbidden, wantMethod: http.MethodGet},
		{name: "display", failPath: "/oauth/token/display", wantStatus: http.StatusInternalServerError, wantMethod: http.MethodPost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == tt.failPath {
					w.WriteHeader(tt.wantStatus)
					return
				}
				fmt.Fprint(w, authorizePage)
			}))
			defer server.Close()

			acquirer := newTestAcquirer(t, server, nil, nil)
			cluster := domain.Cluster{Name: "prod1", ConsoleURL: testConsoleURL}

			_, err := acquirer.AcquireToken(context.Background(), cluster, domain.NegotiatedIdpStrategy{IDP: "kerberos-a"})
			require.Error(t, err)

			var retrievalErr *cerrors.TokenRetrievalError
			require.ErrorAs(t, err, &retrievalErr)
			assert.Equal(t, "negotiated-idp", retrievalErr.Strategy)
			assert.Equal(t, "kerberos-a", retrievalErr.IDP)
			assert.Equal(t, "prod1", retrievalErr.Cluster)

			var httpErr *cerrors.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantMethod, httpErr.Method)
			assert.NotContains(t, httpErr.URL, "?")
		})
	}
}

func TestAcquirer_MissingTokenIsParseError(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/authorize" {
			fmt.Fprint(w, authorizePage)
			return
		}
		fmt.Fprint(w, `<html><body><p>The console changed</p></body></html>`)
	}))
	defer server.Close()

	acquirer := newTestAcquirer(t, server, nil, nil)
	cluster := domain.Cluster{Name: "prod1", ConsoleURL: testConsoleURL}

	_, err := acquirer.AcquireToken(context.Background(), cluster, domain.NegotiatedIdpStrategy{IDP: "kerberos-a"})
	require.Error(t, err)
	assert.True(t, cerrors.IsParse(err))

	var parseErr *cerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "code", parseErr.Selector)
	assert.Contains(t, parseErr.URL, "/oauth/token/display")
}

func TestAcquirer_EmptyTokenIsParseError(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, tokenPage("   "))
	}))
	defer server.Close()

	acquirer := newTestAcquirer(t, server, nil, nil)
	cluster := domain.Cluster{Name: "hs1", ConsoleURL: testHypershiftURL, Hypershift: true}

	_, err := acquirer.AcquireToken(context.Background(), cluster, domain.HypershiftStrategy{})
	assert.True(t, cerrors.IsParse(err))
}

func TestAcquirer_Hypershift(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/oauth/token/request", r.URL.Path)
		assert.Equal(t, testHypershiftOA, r.Host)
		fmt.Fprint(w, tokenPage("sha256~hypershift"))
	}))
	defer server.Close()

	acquirer := newTestAcquirer(t, server, nil, nil)
	cluster := domain.Cluster{Name: "hs1", ConsoleURL: testHypershiftURL, Hypershift: true}

	token, err := acquirer.AcquireToken(context.Background(), cluster, domain.HypershiftStrategy{})
	require.NoError(t, err)
	assert.Equal(t, "sha256~hypershift", token)
	assert.Equal(t, int32(1), requests.Load())
}

func TestAcquirer_Hypershift_FormFallsThroughToDisplay(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token/request":
			fmt.Fprint(w, authorizePage)
		case "/oauth/token/display":
			assert.Equal(t, testHypershiftOA, r.Host)
			fmt.Fprint(w, tokenPage("sha256~displayed"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	acquirer := newTestAcquirer(t, server, nil, nil)
	cluster := domain.Cluster{Name: "hs1", ConsoleURL: testHypershiftURL, Hypershift: true}

	token, err := acquirer.AcquireToken(context.Background(), cluster, domain.HypershiftStrategy{})
	require.NoError(t, err)
	assert.Equal(t, "sha256~displayed", token)
}

func TestAcquirer_Manual(t *testing.T) {
	browser := mocks.NewMockBrowserOpener(t)
	tokens := mocks.NewMockTokenReader(t)

	browser.On("Open", testConsoleURL).Return(nil)
	tokens.On("ReadToken", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return assert.Contains(t, prompt, testConsoleURL)
	})).Return("  sha256~pasted\n", nil)

	acquirer := NewAcquirer(nil, html.NewScraper(), tokens, browser, testutil.Logger())
	cluster := domain.Cluster{Name: "prod1", ConsoleURL: testConsoleURL}

	token, err := acquirer.AcquireToken(context.Background(), cluster, domain.ManualStrategy{})
	require.NoError(t, err)
	assert.Equal(t, "sha256~pasted", token)
}

func TestAcquirer_Manual_BrowserFailureIsNotFatal(t *testing.T) {
	browser := mocks.NewMockBrowserOpener(t)
	tokens := mocks.NewMockTokenReader(t)

	browser.On("Open", testConsoleURL).Return(errors.New("no display"))
	tokens.On("ReadToken", mock.Anything, mock.Anything).Return("", nil)

	acquirer := NewAcquirer(nil, html.NewScraper(), tokens, browser, testutil.Logger())
	cluster := domain.Cluster{Name: "prod1", ConsoleURL: testConsoleURL}

	token, err := acquirer.AcquireToken(context.Background(), cluster, domain.ManualStrategy{})
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestAcquirer_Manual_ReadFailure(t *testing.T) {
	browser := mocks.NewMockBrowserOpener(t)
	tokens := mocks.NewMockTokenReader(t)

	browser.On("Open", testConsoleURL).Return(nil)
	tokens.On("ReadToken", mock.Anything, mock.Anything).Return("", context.Canceled)

	acquirer := NewAcquirer(nil, html.NewScraper(), tokens, browser, testutil.Logger())
	cluster := domain.Cluster{Name: "prod1", ConsoleURL: testConsoleURL}

	_, err := acquirer.AcquireToken(context.Background(), cluster, domain.ManualStrategy{})
	require.Error(t, err)
	assert.True(t, cerrors.IsTokenRetrieval(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAcquirer_UnknownStrategy(t *testing.T) {
	acquirer := NewAcquirer(nil, html.NewScraper(), nil, nil, testutil.Logger())

	_, err := acquirer.AcquireToken(context.Background(), domain.Cluster{Name: "prod1"}, nil)
	require.Error(t, err)
	assert.True(t, cerrors.IsTokenRetrieval(err))
}

func TestResolve(t *testing.T) {
	base := "https://oauth.example.com/oauth/token/display"
	assert.Equal(t, base, resolve(base, ""))
	assert.Equal(t, "https://oauth.example.com/oauth/authorize/approve", resolve(base, "/oauth/authorize/approve"))
	assert.Equal(t, "https://oauth.example.com/oauth/token/approve", resolve(base, "approve"))
	assert.Equal(t, "https://other.example.com/x", resolve(base, "https://other.example.com/x"))
}
