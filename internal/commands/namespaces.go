package commands

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"ocl/internal/domain"
	"ocl/internal/logging"
	"ocl/internal/services/catalog"
)

// NamespacesCommand lists catalog namespaces.
type NamespacesCommand struct {
	namespaces domain.NamespaceLister
	logger     *slog.Logger
}

// NewNamespacesCommand creates a new namespaces command.
func NewNamespacesCommand(namespaces domain.NamespaceLister, logger *slog.Logger) *NamespacesCommand {
	return &NamespacesCommand{
		namespaces: namespaces,
		logger:     logging.WithOperation(logger, "namespaces"),
	}
}

// NamespacesRequest contains the parameters for the namespaces command.
type NamespacesRequest struct {
	// Cluster restricts the listing to one cluster when set.
	Cluster string
}

// Execute runs the namespaces command. Namespaces are sorted by name, then cluster.
func (c *NamespacesCommand) Execute(ctx context.Context, req NamespacesRequest) ([]domain.Namespace, error) {
	namespaces, err := c.namespaces.ListNamespaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get namespaces: %w", err)
	}

	if req.Cluster != "" {
		namespaces = catalog.NamespacesOf(namespaces, req.Cluster)
	}

	slices.SortFunc(namespaces, func(a, b domain.Namespace) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Cluster.Name, b.Cluster.Name))
	})

	c.logger.DebugContext(ctx, "Retrieved namespace list", "cluster", req.Cluster, "count", len(namespaces))
	return namespaces, nil
}
