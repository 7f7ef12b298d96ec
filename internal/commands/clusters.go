package commands

import (
	"context"
	"fmt"
	"log/slog"

	"ocl/internal/domain"
	"ocl/internal/logging"
	"ocl/internal/services/filter"
)

// ClustersCommand lists the clusters ocl can log into.
type ClustersCommand struct {
	registry domain.ClusterRegistry
	logger   *slog.Logger
}

// NewClustersCommand creates a new clusters command.
func NewClustersCommand(registry domain.ClusterRegistry, logger *slog.Logger) *ClustersCommand {
	return &ClustersCommand{
		registry: registry,
		logger:   logging.WithOperation(logger, "clusters"),
	}
}

// ClustersRequest contains the parameters for the clusters command.
type ClustersRequest struct {
	ExcludePatterns []string
}

// ClustersResult contains the result of the clusters command.
type ClustersResult struct {
	Clusters []domain.Cluster
	Count    int
}

// Execute runs the clusters command.
func (c *ClustersCommand) Execute(ctx context.Context, req ClustersRequest) (*ClustersResult, error) {
	clusterFilter, err := filter.New(req.ExcludePatterns, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create exclude filter: %w", err)
	}

	clusters, err := c.registry.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get clusters: %w", err)
	}

	clusters = filter.Apply(clusterFilter, clusters)
	c.logger.DebugContext(ctx, "Retrieved cluster list", "count", len(clusters))

	return &ClustersResult{
		Clusters: clusters,
		Count:    len(clusters),
	}, nil
}
