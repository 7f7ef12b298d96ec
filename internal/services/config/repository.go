package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
)

const (
	dirPermissions  = 0o700 // Owner-only access for security
	filePermissions = 0o600 // Read/write owner only
	configVersion   = "1"
)

// Repository handles persistence of user-defined clusters.
type Repository struct {
	fs         domain.FileSystemAdapter
	configPath string
	config     *Config
	logger     *slog.Logger
}

// Config represents the ocl configuration file. Keys other than the cluster
// list belong to the variable resolver and are written back untouched.
type Config struct {
	Version  string           `yaml:"version"`
	Clusters []domain.Cluster `yaml:"clusters"`
	Settings map[string]any   `yaml:",inline"`
}

// NewRepository creates a new configuration repository.
func NewRepository(
	fs domain.FileSystemAdapter,
	configPath string,
	logger *slog.Logger,
) (*Repository, error) {
	repo := &Repository{
		fs:         fs,
		configPath: configPath,
		config:     emptyConfig(),
		logger:     logger,
	}

	configDir := filepath.Dir(configPath)
	if err := fs.MkdirAll(configDir, dirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := repo.LoadConfig(context.Background()); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to load existing config, starting with empty config", "error", err)
		}
	}

	return repo, nil
}

func emptyConfig() *Config {
	return &Config{Version: configVersion, Clusters: []domain.Cluster{}}
}

// GetClusters returns all user-defined clusters.
func (r *Repository) GetClusters(ctx context.Context) ([]domain.Cluster, error) {
	r.logger.DebugContext(ctx, "Getting clusters from config", "count", len(r.config.Clusters))
	return slices.Clone(r.config.Clusters), nil
}

// AddCluster adds a new cluster to the configuration.
func (r *Repository) AddCluster(ctx context.Context, cluster domain.Cluster) error {
	if err := ValidateCluster(cluster); err != nil {
		return err
	}

	for _, existing := range r.config.Clusters {
		if existing.Name == cluster.Name {
			return fmt.Errorf("cluster %s already exists in configuration", cluster.Name)
		}
	}

	r.config.Clusters = append(r.config.Clusters, cluster)
	r.logger.DebugContext(ctx, "Added cluster to configuration", "cluster", cluster.Name, "server", cluster.ServerURL)

	if err := r.SaveConfig(ctx); err != nil {
		r.config.Clusters = r.config.Clusters[:len(r.config.Clusters)-1] // Rollback
		return fmt.Errorf("failed to save configuration after adding cluster: %w", err)
	}

	return nil
}

// RemoveCluster removes a cluster from the configuration.
func (r *Repository) RemoveCluster(ctx context.Context, name string) error {
	initialLength := len(r.config.Clusters)
	oldClusters := slices.Clone(r.config.Clusters)

	r.config.Clusters = slices.DeleteFunc(r.config.Clusters, func(c domain.Cluster) bool {
		return c.Name == name
	})

	if len(r.config.Clusters) == initialLength {
		return cerrors.NewValidationError("name", name, "exists", fmt.Sprintf("cluster %s not found in configuration", name))
	}

	r.logger.DebugContext(ctx, "Removed cluster from configuration", "cluster", name)

	if err := r.SaveConfig(ctx); err != nil {
		r.config.Clusters = oldClusters // Rollback
		return fmt.Errorf("failed to save configuration after removing cluster: %w", err)
	}

	return nil
}

// SaveConfig saves the current configuration to disk.
func (r *Repository) SaveConfig(ctx context.Context) error {
	data, err := yaml.Marshal(r.config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if writeErr := r.fs.WriteFile(r.configPath, data, filePermissions); writeErr != nil {
		return fmt.Errorf("failed to write configuration file: %w", writeErr)
	}
	// The file may predate ocl or have been loosened by hand.
	if chmodErr := r.fs.Chmod(r.configPath, filePermissions); chmodErr != nil {
		return fmt.Errorf("failed to restrict configuration file permissions: %w", chmodErr)
	}

	r.logger.DebugContext(ctx, "Configuration saved", "path", r.configPath)
	return nil
}

// LoadConfig loads the configuration from disk.
func (r *Repository) LoadConfig(ctx context.Context) error {
	data, err := r.fs.ReadFile(r.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.DebugContext(ctx, "Configuration file does not exist", "path", r.configPath)
			return os.ErrNotExist
		}
		return fmt.Errorf("failed to read configuration file: %w", err)
	}

	config := emptyConfig()
	if unmarshalErr := yaml.Unmarshal(data, config); unmarshalErr != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", unmarshalErr)
	}

	valid := config.Clusters[:0]
	for _, c := range config.Clusters {
		if err := ValidateCluster(c); err != nil {
			r.logger.WarnContext(ctx, "Skipping invalid cluster in configuration", "cluster", c.Name, "error", err)
			continue
		}
		valid = append(valid, c)
	}
	config.Clusters = valid

	r.config = config
	r.logger.DebugContext(ctx, "Configuration loaded",
		"path", r.configPath,
		"version", config.Version,
		"clusters", len(config.Clusters))
	return nil
}

// ValidateCluster checks the fields a login needs.
func ValidateCluster(c domain.Cluster) error {
	switch {
	case c.Name == "":
		return cerrors.NewValidationError("name", "", "required", "cluster name is required")
	case c.ServerURL == "":
		return cerrors.NewValidationError("serverUrl", "", "required", fmt.Sprintf("cluster %s has no server URL", c.Name))
	case c.ConsoleURL == "":
		return cerrors.NewValidationError("consoleUrl", "", "required", fmt.Sprintf("cluster %s has no console URL", c.Name))
	}
	return nil
}
