package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "ocl/internal/errors"
	"ocl/internal/testutil"
)

func TestAdapter_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("hello"))
	}))
	defer server.Close()

	adapter := NewAdapter(5*time.Second, false, testutil.Logger())

	resp, err := adapter.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", string(body))
}

func TestAdapter_PostWithAuth_SendsHeaderVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "raw-token-value", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "{ clusters_v1 { name } }", payload["query"])
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	adapter := NewAdapter(5*time.Second, false, testutil.Logger())

	resp, err := adapter.PostWithAuth(context.Background(), server.URL, "raw-token-value",
		map[string]string{"query": "{ clusters_v1 { name } }"})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdapter_Post_OmitsAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	adapter := NewAdapter(5*time.Second, false, testutil.Logger())

	resp, err := adapter.Post(context.Background(), server.URL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAdapter_PostForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, []string{"abc"}, r.PostForm["code"])
		assert.Equal(t, []string{"a", "b"}, r.PostForm["scope"])
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	adapter := NewAdapter(5*time.Second, false, testutil.Logger())

	form := url.Values{"code": {"abc"}, "scope": {"a", "b"}}
	resp, err := adapter.PostForm(context.Background(), server.URL, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdapter_WithoutRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/elsewhere", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	following := NewAdapter(5*time.Second, false, testutil.Logger())
	resp, err := following.Get(context.Background(), server.URL+"/start")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stopping := NewAdapter(5*time.Second, false, testutil.Logger(), WithoutRedirects())
	resp, err = stopping.Get(context.Background(), server.URL+"/start")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/elsewhere", resp.Header.Get("Location"))
}

func TestAdapter_KeepsCookies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/set" {
			http.SetCookie(w, &http.Cookie{Name: "csrf", Value: "token-1", Path: "/"})
			return
		}
		c, err := r.Cookie("csrf")
		if assert.NoError(t, err) {
			assert.Equal(t, "token-1", c.Value)
		}
	}))
	defer server.Close()

	adapter := NewAdapter(5*time.Second, false, testutil.Logger())

	resp, err := adapter.Get(context.Background(), server.URL+"/set")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = adapter.Get(context.Background(), server.URL+"/check")
	require.NoError(t, err)
	resp.Body.Close()
}

func TestAdapter_TransportWrapper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "yes", r.Header.Get("X-Wrapped"))
	}))
	defer server.Close()

	var calls atomic.Int32
	wrap := func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			calls.Add(1)
			req = req.Clone(req.Context())
			req.Header.Set("X-Wrapped", "yes")
			return next.RoundTrip(req)
		})
	}

	adapter := NewAdapter(5*time.Second, false, testutil.Logger(), WithTransportWrapper(wrap))
	resp, err := adapter.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, int32(1), calls.Load())
}

func TestAdapter_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	target := server.URL
	server.Close()

	adapter := NewAdapter(time.Second, false, testutil.Logger(), WithRetryCount(0))

	_, err := adapter.Get(context.Background(), target+"/oauth/authorize?code=secret")
	require.Error(t, err)
	assert.True(t, cerrors.IsNetwork(err))

	var netErr *cerrors.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.MethodGet, netErr.Method)
	assert.NotContains(t, netErr.URL, "secret")
}

// newDroppingServer accepts connections and closes them without answering.
func newDroppingServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		conn, _, err := w.(http.Hijacker).Hijack()
		if assert.NoError(t, err) {
			_ = conn.Close()
		}
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestAdapter_WithoutRetriesHitsServerOnce(t *testing.T) {
	server, hits := newDroppingServer(t)
	adapter := NewAdapter(time.Second, false, testutil.Logger(), WithRetryCount(0))

	_, err := adapter.Get(context.Background(), server.URL+"/oauth/authorize")
	require.Error(t, err)
	assert.True(t, cerrors.IsNetwork(err))
	assert.Equal(t, int32(1), hits.Load())

	_, err = adapter.PostForm(context.Background(), server.URL+"/oauth/token/display", url.Values{"code": {"abc"}})
	require.Error(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestAdapter_RestyMessagesGoThroughLogger(t *testing.T) {
	server, _ := newDroppingServer(t)
	logger, buf := testutil.CaptureLogger()
	stderr := captureStderr(t, func() {
		adapter := NewAdapter(time.Second, false, logger, WithRetryCount(1))
		_, err := adapter.Get(context.Background(), server.URL)
		require.Error(t, err)
	})

	assert.Empty(t, stderr)
	assert.Contains(t, buf.String(), "component=resty")
}

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = orig }()

	fn()
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "https://oauth.example.com/authorize", redact("https://oauth.example.com/authorize"))
	assert.NotContains(t, redact("https://oauth.example.com/callback?code=abc"), "abc")
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }
