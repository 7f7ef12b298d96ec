package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
	"ocl/internal/logging"
)

const (
	tokenSelector = "code"

	maxPageBytes = 4 << 20

	defaultPollInterval = 500 * time.Millisecond
	defaultPollTimeout  = 30 * time.Second
)

// SessionFactory returns a fresh cookie-keeping HTTP session. Each login
// gets its own session so OAuth state never leaks between attempts.
type SessionFactory func() domain.HTTPAdapter

// AcquirerOption configures an Acquirer.
type AcquirerOption func(*Acquirer)

// WithPolling bounds how long the acquirer keeps submitting intermediate
// forms while waiting for the token page.
func WithPolling(interval, timeout time.Duration) AcquirerOption {
	return func(a *Acquirer) {
		a.pollInterval = interval
		a.pollTimeout = timeout
	}
}

// Acquirer implements domain.TokenAcquirer.
type Acquirer struct {
	newSession   SessionFactory
	scraper      domain.HTMLScraper
	tokens       domain.TokenReader
	browser      domain.BrowserOpener
	logger       *slog.Logger
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewAcquirer creates a token acquirer.
func NewAcquirer(
	newSession SessionFactory,
	scraper domain.HTMLScraper,
	tokens domain.TokenReader,
	browser domain.BrowserOpener,
	logger *slog.Logger,
	opts ...AcquirerOption,
) *Acquirer {
	a := &Acquirer{
		newSession:   newSession,
		scraper:      scraper,
		tokens:       tokens,
		browser:      browser,
		logger:       logger,
		pollInterval: defaultPollInterval,
		pollTimeout:  defaultPollTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AcquireToken runs strategy for cluster. Every failure is a TokenRetrievalError.
func (a *Acquirer) AcquireToken(ctx context.Context, cluster domain.Cluster, strategy domain.TokenStrategy) (string, error) {
	var (
		token string
		idp   string
		err   error
	)

	switch s := strategy.(type) {
	case domain.HypershiftStrategy:
		token, err = a.requestToken(ctx, cluster)
	case domain.NegotiatedIdpStrategy:
		idp = s.IDP
		token, err = a.negotiateToken(ctx, cluster, s.IDP)
	case domain.ManualStrategy:
		token, err = a.readToken(ctx, cluster)
	default:
		err = fmt.Errorf("unsupported token strategy %T", strategy)
	}

	if err != nil {
		name := "unknown"
		if strategy != nil {
			name = strategy.String()
		}
		return "", cerrors.NewTokenRetrievalError(name, idp, cluster.Name, err)
	}
	return token, nil
}

// requestToken fetches the hypershift token request page.
func (a *Acquirer) requestToken(ctx context.Context, cluster domain.Cluster) (string, error) {
	host, err := Host(cluster.ConsoleURL, true)
	if err != nil {
		return "", err
	}

	session := a.newSession()
	pg, err := a.get(ctx, session, TokenRequestURL(host))
	if err != nil {
		return "", err
	}
	return a.awaitToken(ctx, session, pg, DisplayURL(host))
}

// negotiateToken walks the authorize flow of idp.
func (a *Acquirer) negotiateToken(ctx context.Context, cluster domain.Cluster, idp string) (string, error) {
	host, err := Host(cluster.ConsoleURL, false)
	if err != nil {
		return "", err
	}

	logging.WithStrategy(a.logger, "negotiated-idp", idp).DebugContext(ctx, "Requesting authorization", "host", host)

	session := a.newSession()
	pg, err := a.get(ctx, session, AuthorizeURL(host, idp))
	if err != nil {
		return "", err
	}
	return a.awaitToken(ctx, session, pg, DisplayURL(host))
}

// readToken asks the user to copy a token from the console.
func (a *Acquirer) readToken(ctx context.Context, cluster domain.Cluster) (string, error) {
	if err := a.browser.Open(cluster.ConsoleURL); err != nil {
		a.logger.WarnContext(ctx, "Could not open the console in a browser", "console", cluster.ConsoleURL, "error", err)
	}

	prompt := fmt.Sprintf("Log in to %s with your browser and paste the token (Copy login command > Display Token): ", cluster.ConsoleURL)
	token, err := a.tokens.ReadToken(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// page is a fetched HTML document and the URL it was finally served from.
type page struct {
	url  string
	body []byte
}

// awaitToken extracts the token from pg. While the current page carries a
// form instead, the form is submitted (first to firstTarget, then to its own
// action) until the token shows up or the poll timeout runs out.
func (a *Acquirer) awaitToken(ctx context.Context, session domain.HTTPAdapter, pg page, firstTarget string) (string, error) {
	var token string
	submitted := false

	err := wait.PollUntilContextTimeout(ctx, a.pollInterval, a.pollTimeout, true, func(ctx context.Context) (bool, error) {
		text, err := a.scraper.ExtractText(pg.body, tokenSelector)
		if err == nil {
			token = strings.TrimSpace(text)
			if token == "" {
				return false, cerrors.NewParseError(tokenSelector, pg.url, "token element is empty")
			}
			return true, nil
		}
		if !errors.Is(err, domain.ErrElementNotFound) {
			return false, cerrors.NewParseError(tokenSelector, pg.url, err.Error())
		}

		form, err := a.scraper.SerializeForm(pg.body)
		if errors.Is(err, domain.ErrElementNotFound) {
			return false, cerrors.NewParseError(tokenSelector, pg.url, "page has neither a token nor a form")
		}
		if err != nil {
			return false, cerrors.NewParseError("form", pg.url, err.Error())
		}

		target := firstTarget
		if submitted {
			target = resolve(pg.url, form.Action)
		}
		submitted = true

		a.logger.DebugContext(ctx, "Submitting form", "url", target, "fields", len(form.Fields))
		next, err := a.post(ctx, session, target, form.Fields)
		if err != nil {
			return false, err
		}
		pg = next
		return false, nil
	})

	if err != nil {
		if ctx.Err() == nil && wait.Interrupted(err) {
			return "", cerrors.NewParseError(tokenSelector, pg.url,
				fmt.Sprintf("token did not appear within %s", a.pollTimeout))
		}
		return "", err
	}
	return token, nil
}

func (a *Acquirer) get(ctx context.Context, session domain.HTTPAdapter, target string) (page, error) {
	resp, err := session.Get(ctx, target)
	if err != nil {
		return page{}, err
	}
	return readPage(resp, http.MethodGet, target)
}

func (a *Acquirer) post(ctx context.Context, session domain.HTTPAdapter, target string, fields url.Values) (page, error) {
	resp, err := session.PostForm(ctx, target, fields)
	if err != nil {
		return page{}, err
	}
	return readPage(resp, http.MethodPost, target)
}

func readPage(resp *http.Response, method, target string) (page, error) {
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		_, _ = io.CopyN(io.Discard, resp.Body, maxDrainBytes)
		return page{}, cerrors.NewHTTPError(resp.StatusCode, method, stripQuery(target), http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return page{}, cerrors.NewNetworkError(method, stripQuery(target), err)
	}

	final := target
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	return page{url: final, body: body}, nil
}

func resolve(base, action string) string {
	if action == "" {
		return base
	}
	b, err := url.Parse(base)
	if err != nil {
		return action
	}
	ref, err := url.Parse(action)
	if err != nil {
		return action
	}
	return b.ResolveReference(ref).String()
}

func stripQuery(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}
