// Package registry resolves cluster names against every source ocl knows:
// the catalog, the configuration file and OCL_USER_CLUSTERS.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
	"ocl/internal/services/config"
)

// Registry merges cluster sources. A cluster defined by a later source
// replaces a catalog cluster of the same name.
type Registry struct {
	catalog domain.ClusterLister
	repo    domain.ConfigRepository
	vars    domain.VariableSource
	logger  *slog.Logger
}

// New creates a registry. repo and vars may be nil.
func New(
	catalog domain.ClusterLister,
	repo domain.ConfigRepository,
	vars domain.VariableSource,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		catalog: catalog,
		repo:    repo,
		vars:    vars,
		logger:  logger,
	}
}

// All returns every known cluster sorted by name.
func (r *Registry) All(ctx context.Context) ([]domain.Cluster, error) {
	remote, err := r.catalog.ListClusters(ctx)
	if err != nil {
		return nil, err
	}

	local, err := r.local(ctx)
	if err != nil {
		return nil, err
	}

	merged := merge(remote, local)
	slices.SortFunc(merged, func(a, b domain.Cluster) int {
		return strings.Compare(a.Name, b.Name)
	})
	return merged, nil
}

// Find returns the cluster called name. Locally defined clusters are
// resolved without querying the catalog.
func (r *Registry) Find(ctx context.Context, name string) (domain.Cluster, error) {
	if name == "" {
		return domain.Cluster{}, cerrors.NewValidationError("cluster", "", "required", "cluster name is required")
	}

	local, err := r.local(ctx)
	if err != nil {
		return domain.Cluster{}, err
	}
	if i := slices.IndexFunc(local, byName(name)); i >= 0 {
		r.logger.DebugContext(ctx, "Cluster resolved from local definitions", "cluster", name)
		return local[i], nil
	}

	all, err := r.All(ctx)
	if err != nil {
		return domain.Cluster{}, err
	}
	if i := slices.IndexFunc(all, byName(name)); i >= 0 {
		return all[i], nil
	}

	names := make([]string, 0, len(all))
	for _, c := range all {
		names = append(names, c.Name)
	}
	return domain.Cluster{}, &NotFoundError{Name: name, Available: names}
}

// local returns the configuration file clusters followed by OCL_USER_CLUSTERS,
// later definitions replacing earlier ones.
func (r *Registry) local(ctx context.Context) ([]domain.Cluster, error) {
	var fromFile []domain.Cluster
	if r.repo != nil {
		clusters, err := r.repo.GetClusters(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read configured clusters: %w", err)
		}
		fromFile = clusters
	}

	var fromEnv []domain.Cluster
	if r.vars != nil {
		raw, err := r.vars.GetDefault(ctx, config.VarUserClusters, "")
		if err != nil {
			return nil, err
		}
		fromEnv, err = ParseUserClusters(raw)
		if err != nil {
			return nil, err
		}
	}

	return merge(fromFile, fromEnv), nil
}

// ParseUserClusters decodes a JSON or YAML list of clusters.
func ParseUserClusters(raw string) ([]domain.Cluster, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var clusters []domain.Cluster
	if err := yaml.Unmarshal([]byte(raw), &clusters); err != nil {
		return nil, cerrors.NewConfigurationError(config.VarUserClusters, "", "value is not a list of clusters", err)
	}

	var errs []error
	for _, c := range clusters {
		if err := config.ValidateCluster(c); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, cerrors.NewConfigurationError(config.VarUserClusters, "", "invalid cluster definition", errors.Join(errs...))
	}
	return clusters, nil
}

func merge(base, overrides []domain.Cluster) []domain.Cluster {
	merged := slices.Clone(base)
	for _, o := range overrides {
		if i := slices.IndexFunc(merged, byName(o.Name)); i >= 0 {
			merged[i] = o
			continue
		}
		merged = append(merged, o)
	}
	return merged
}

func byName(name string) func(domain.Cluster) bool {
	return func(c domain.Cluster) bool { return c.Name == name }
}

// NotFoundError reports an unknown cluster together with the known ones.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("cluster %s not found", e.Name)
	}
	return fmt.Sprintf("cluster %s not found. Available clusters: %s", e.Name, strings.Join(e.Available, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == cerrors.ErrNotFound
}
