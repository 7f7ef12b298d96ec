package oauth

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"ocl/internal/domain"
)

const maxDrainBytes = 64 << 10

// Selector probes identity providers in priority order.
type Selector struct {
	httpAdapter domain.HTTPAdapter
	logger      *slog.Logger
}

// NewSelector creates a selector. The adapter must not follow redirects and
// should carry a short timeout.
func NewSelector(httpAdapter domain.HTTPAdapter, logger *slog.Logger) *Selector {
	return &Selector{
		httpAdapter: httpAdapter,
		logger:      logger,
	}
}

// SelectIdp returns the first candidate whose authorize endpoint answers
// below 400. Probing stops at the manual sentinel. Failures of single
// probes only move on to the next candidate.
func (s *Selector) SelectIdp(ctx context.Context, consoleURL string, candidates []string) (string, bool) {
	host, err := Host(consoleURL, false)
	if err != nil {
		s.logger.WarnContext(ctx, "Cannot derive OAuth host", "console", consoleURL, "error", err)
		return "", false
	}

	for _, idp := range candidates {
		if idp == domain.ManualIDP {
			s.logger.DebugContext(ctx, "Manual token entry requested, stopping IDP probe")
			return "", false
		}
		if ctx.Err() != nil {
			return "", false
		}

		if s.probe(ctx, AuthorizeURL(host, idp)) {
			s.logger.DebugContext(ctx, "IDP accepted", "idp", idp, "host", host)
			return idp, true
		}
		s.logger.DebugContext(ctx, "IDP rejected", "idp", idp, "host", host)
	}
	return "", false
}

func (s *Selector) probe(ctx context.Context, authorizeURL string) bool {
	resp, err := s.httpAdapter.Get(ctx, authorizeURL)
	if err != nil {
		s.logger.DebugContext(ctx, "IDP probe failed", "error", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.CopyN(io.Discard, resp.Body, maxDrainBytes)

	return resp.StatusCode < http.StatusBadRequest
}
