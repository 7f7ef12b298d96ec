package commands

import (
	"context"
	"fmt"
	"log/slog"

	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
	"ocl/internal/logging"
)

// SessionRemover deletes the stored session of a cluster.
type SessionRemover interface {
	Remove(ctx context.Context, cluster domain.Cluster) error
}

// RemoveCommand handles removing user-defined clusters from the configuration.
type RemoveCommand struct {
	configRepo domain.ConfigRepository
	sessions   SessionRemover
	logger     *slog.Logger
}

// NewRemoveCommand creates a new remove command.
func NewRemoveCommand(configRepo domain.ConfigRepository, sessions SessionRemover, logger *slog.Logger) *RemoveCommand {
	return &RemoveCommand{
		configRepo: configRepo,
		sessions:   sessions,
		logger:     logging.WithOperation(logger, "remove"),
	}
}

// RemoveRequest contains the parameters for the remove command.
type RemoveRequest struct {
	Name string
	// PurgeSession also deletes the cluster's session file.
	PurgeSession bool
}

// Execute runs the remove command.
func (c *RemoveCommand) Execute(ctx context.Context, req RemoveRequest) error {
	if req.Name == "" {
		return cerrors.NewValidationError("name", "", "required", "cluster name is required")
	}

	c.logger.DebugContext(ctx, "Removing cluster", "cluster", req.Name)

	if err := c.configRepo.RemoveCluster(ctx, req.Name); err != nil {
		return fmt.Errorf("failed to remove cluster: %w", err)
	}

	if req.PurgeSession {
		if err := c.sessions.Remove(ctx, domain.Cluster{Name: req.Name}); err != nil {
			return fmt.Errorf("failed to remove session of %s: %w", req.Name, err)
		}
	}
	return nil
}
