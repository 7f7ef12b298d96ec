package commands

import (
	"context"
	"log/slog"
	"strings"

	"ocl/internal/domain"
	"ocl/internal/logging"
	"ocl/internal/services/catalog"
)

// Completer suggests cluster and project arguments for shell completion.
type Completer struct {
	registry   domain.ClusterRegistry
	namespaces domain.NamespaceLister
	logger     *slog.Logger
}

// NewCompleter creates a new completer.
func NewCompleter(registry domain.ClusterRegistry, namespaces domain.NamespaceLister, logger *slog.Logger) *Completer {
	return &Completer{
		registry:   registry,
		namespaces: namespaces,
		logger:     logging.WithOperation(logger, "complete"),
	}
}

// Clusters returns the cluster names starting with prefix. Errors yield no suggestions.
func (c *Completer) Clusters(ctx context.Context, prefix string) []string {
	clusters, err := c.registry.All(ctx)
	if err != nil {
		c.logger.DebugContext(ctx, "Cluster completion failed", "error", err)
		return nil
	}

	var names []string
	for _, cl := range clusters {
		if strings.HasPrefix(cl.Name, prefix) {
			names = append(names, cl.Name)
		}
	}
	return names
}

// Projects returns the namespaces of cluster starting with prefix.
func (c *Completer) Projects(ctx context.Context, cluster, prefix string) []string {
	if cluster == "" {
		return nil
	}

	namespaces, err := c.namespaces.ListNamespaces(ctx)
	if err != nil {
		c.logger.DebugContext(ctx, "Project completion failed", "cluster", cluster, "error", err)
		return nil
	}

	var names []string
	for _, ns := range catalog.NamespacesOf(namespaces, cluster) {
		if strings.HasPrefix(ns.Name, prefix) {
			names = append(names, ns.Name)
		}
	}
	return names
}
