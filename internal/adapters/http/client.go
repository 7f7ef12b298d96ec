package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	cerrors "ocl/internal/errors"
)

const (
	// HTTP client retry configuration.
	defaultRetryCount       = 3
	defaultRetryMaxWaitTime = 5 * time.Second

	// Rate limiting configuration.
	rateLimitRequestsPerSecond = 10
	rateLimitBurst             = 20
)

const (
	// Standard HTTP content types.
	contentTypeJSON = "application/json"
)

// Option configures an Adapter.
type Option func(*options)

type options struct {
	retryCount      int
	followRedirects bool
	wrapTransport   func(http.RoundTripper) http.RoundTripper
}

// WithRetryCount sets how often a request failing at transport level is retried.
func WithRetryCount(count int) Option {
	return func(o *options) {
		o.retryCount = count
	}
}

// WithoutRedirects makes the adapter return 3xx responses instead of following them.
func WithoutRedirects() Option {
	return func(o *options) {
		o.followRedirects = false
	}
}

// WithTransportWrapper wraps the base transport, e.g. for Negotiate authentication.
func WithTransportWrapper(wrap func(http.RoundTripper) http.RoundTripper) Option {
	return func(o *options) {
		o.wrapTransport = wrap
	}
}

// Adapter is an HTTP client adapter using resty with rate limiting.
// The underlying client keeps cookies, so one Adapter is one browser-like session.
type Adapter struct {
	client *resty.Client
}

// NewAdapter creates a new HTTP adapter with rate limiting and retry capabilities.
// Rate limit: 10 requests per second with burst of 20.
func NewAdapter(timeout time.Duration, insecureSkipVerify bool, logger Logger, opts ...Option) *Adapter {
	o := &options{
		retryCount:      defaultRetryCount,
		followRedirects: true,
	}
	for _, opt := range opts {
		opt(o)
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: insecureSkipVerify, //nolint:gosec // User-configurable for self-signed certificates
	}
	var transport http.RoundTripper = base
	if o.wrapTransport != nil {
		transport = o.wrapTransport(base)
	}

	client := resty.New().
		SetLogger(restyLogger{logger: logger}).
		SetTransport(transport).
		SetTimeout(timeout).
		SetRetryCount(o.retryCount).
		SetRetryWaitTime(time.Second).
		SetRetryMaxWaitTime(defaultRetryMaxWaitTime)

	if !o.followRedirects {
		client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
	}

	// Rate limiter: 10 requests/second with burst of 20
	limiter := rate.NewLimiter(rate.Limit(rateLimitRequestsPerSecond), rateLimitBurst)

	// Add rate limiting middleware
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	// Add logging middleware
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		logger.DebugContext(req.Context(), "HTTP request",
			"method", req.Method,
			"url", redact(req.URL),
		)
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.DebugContext(resp.Request.Context(), "HTTP response",
			"method", resp.Request.Method,
			"url", redact(resp.Request.URL),
			"status", resp.StatusCode(),
			"duration", resp.Time(),
		)
		return nil
	})

	return &Adapter{
		client: client,
	}
}

// Logger is the subset of *slog.Logger the adapter logs through.
type Logger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
}

// restyLogger routes resty's own messages into the adapter's logger. Failures
// reach callers as returned errors, so resty's reports are debug detail.
type restyLogger struct {
	logger Logger
}

func (l restyLogger) Errorf(format string, v ...any) { l.log("error", format, v) }
func (l restyLogger) Warnf(format string, v ...any)  { l.log("warn", format, v) }
func (l restyLogger) Debugf(format string, v ...any) { l.log("debug", format, v) }

func (l restyLogger) log(severity, format string, v []any) {
	l.logger.DebugContext(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)),
		"component", "resty", "severity", severity)
}

// Get performs a GET request.
func (a *Adapter) Get(ctx context.Context, url string) (*http.Response, error) {
	resp, err := a.client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(url)
	if err != nil {
		return nil, cerrors.NewNetworkError(http.MethodGet, redact(url), err)
	}
	return resp.RawResponse, nil
}

// Post performs a POST request with optional JSON payload.
func (a *Adapter) Post(ctx context.Context, url string, payload any) (*http.Response, error) {
	return a.PostWithAuth(ctx, url, "", payload)
}

// PostWithAuth performs a POST request with a verbatim Authorization header and optional JSON payload.
func (a *Adapter) PostWithAuth(
	ctx context.Context,
	url, authorization string,
	payload any,
) (*http.Response, error) {
	request := a.client.R().SetContext(ctx).SetDoNotParseResponse(true)

	if authorization != "" {
		request.SetHeader("Authorization", authorization)
	}
	if payload != nil {
		request.SetHeader("Content-Type", contentTypeJSON).SetBody(payload)
	}

	resp, err := request.Post(url)
	if err != nil {
		return nil, cerrors.NewNetworkError(http.MethodPost, redact(url), err)
	}
	return resp.RawResponse, nil
}

// PostForm performs a POST request with an url-encoded form body.
func (a *Adapter) PostForm(ctx context.Context, url string, form url.Values) (*http.Response, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetFormDataFromValues(form).
		Post(url)
	if err != nil {
		return nil, cerrors.NewNetworkError(http.MethodPost, redact(url), err)
	}
	return resp.RawResponse, nil
}

// redact drops query strings from logged URLs; OAuth codes travel there.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}
	u.RawQuery = "…"
	return u.String()
}
