package commands

import (
	"context"
	"fmt"
	"log/slog"

	"ocl/internal/domain"
	"ocl/internal/logging"
)

// AddCommand handles adding user-defined clusters to the configuration.
type AddCommand struct {
	configRepo domain.ConfigRepository
	logger     *slog.Logger
}

// NewAddCommand creates a new add command.
func NewAddCommand(configRepo domain.ConfigRepository, logger *slog.Logger) *AddCommand {
	return &AddCommand{
		configRepo: configRepo,
		logger:     logging.WithOperation(logger, "add"),
	}
}

// AddRequest contains the parameters for the add command.
type AddRequest struct {
	Name        string
	ServerURL   string
	ConsoleURL  string
	AuthMethods []string
	Hypershift  bool
}

// Execute runs the add command.
func (c *AddCommand) Execute(ctx context.Context, req AddRequest) error {
	cluster := domain.Cluster{
		Name:        req.Name,
		ServerURL:   req.ServerURL,
		ConsoleURL:  req.ConsoleURL,
		AuthMethods: req.AuthMethods,
		Hypershift:  req.Hypershift,
	}

	c.logger.DebugContext(ctx, "Adding new cluster",
		"cluster", req.Name,
		"server", req.ServerURL,
		"hypershift", req.Hypershift)

	if err := c.configRepo.AddCluster(ctx, cluster); err != nil {
		return fmt.Errorf("failed to add cluster: %w", err)
	}
	return nil
}
