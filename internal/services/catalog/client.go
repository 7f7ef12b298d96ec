// Package catalog queries the cluster catalog (app-interface) over GraphQL.
package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
)

// DefaultCacheTTL is how long a query result is served from the cache.
const DefaultCacheTTL = 60 * time.Minute

const maxResponseSize = 16 << 20

// Settings locates the catalog endpoint.
type Settings struct {
	URL   string
	Token string
	TTL   time.Duration
}

// Client sends GraphQL queries to the catalog and caches their data objects.
type Client struct {
	httpAdapter domain.HTTPAdapter
	cache       domain.QueryCache
	settings    Settings
	logger      *slog.Logger
}

// NewClient creates a new catalog client.
func NewClient(
	httpAdapter domain.HTTPAdapter,
	cache domain.QueryCache,
	settings Settings,
	logger *slog.Logger,
) *Client {
	settings.URL = normalizeURL(settings.URL)
	return &Client{
		httpAdapter: httpAdapter,
		cache:       cache,
		settings:    settings,
		logger:      logger,
	}
}

// Fingerprint is the cache key of a query: the lowercase hex SHA-256 of its text.
func Fingerprint(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}

// Query runs query and decodes its data object into out. A cached result
// for the same query text is used without contacting the catalog.
func (c *Client) Query(ctx context.Context, query string, out any) error {
	key := Fingerprint(query)

	data, found, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "Query cache unavailable, asking the catalog", "error", err)
	}
	if !found {
		data, err = c.fetch(ctx, query)
		if err != nil {
			return err
		}
		if setErr := c.cache.Set(ctx, key, data, c.settings.TTL); setErr != nil {
			c.logger.WarnContext(ctx, "Failed to cache catalog response", "error", setErr)
		}
	} else {
		c.logger.DebugContext(ctx, "Catalog query served from cache", "fingerprint", key[:12])
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode catalog data: %w", err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, query string) ([]byte, error) {
	if c.settings.URL == "" {
		return nil, cerrors.NewConfigurationError("app_interface_url", "", "catalog URL is not configured", nil)
	}

	c.logger.DebugContext(ctx, "Querying catalog", "url", c.settings.URL)

	resp, err := c.httpAdapter.PostWithAuth(ctx, c.settings.URL, c.settings.Token, map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	failed := resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices
	switch {
	case failed && err != nil:
		return nil, cerrors.NewHTTPErrorWithCause(resp.StatusCode, http.MethodPost, c.settings.URL,
			http.StatusText(resp.StatusCode), err)
	case failed:
		return nil, cerrors.NewHTTPError(resp.StatusCode, http.MethodPost, c.settings.URL, strings.TrimSpace(string(body)))
	case err != nil:
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return nil, fmt.Errorf("catalog returned errors: %s", strings.Join(messages, "; "))
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, fmt.Errorf("catalog response from %s has no data", c.settings.URL)
	}

	return envelope.Data, nil
}

// normalizeURL removes trailing slashes so cached and logged URLs are stable.
func normalizeURL(url string) string {
	return strings.TrimRight(url, "/")
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}
