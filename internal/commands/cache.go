package commands

import (
	"context"
	"fmt"
	"log/slog"

	"ocl/internal/domain"
	"ocl/internal/logging"
)

// CacheClearCommand drops every cached catalog response.
type CacheClearCommand struct {
	cache  domain.QueryCache
	logger *slog.Logger
}

// NewCacheClearCommand creates a new cache clear command.
func NewCacheClearCommand(cache domain.QueryCache, logger *slog.Logger) *CacheClearCommand {
	return &CacheClearCommand{
		cache:  cache,
		logger: logging.WithOperation(logger, "cache-clear"),
	}
}

// Execute runs the cache clear command.
func (c *CacheClearCommand) Execute(ctx context.Context) error {
	if err := c.cache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	c.logger.DebugContext(ctx, "Catalog cache cleared")
	return nil
}
