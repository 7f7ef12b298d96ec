package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"ocl/internal/domain"
)

// ClustersQuery lists every cluster together with the facts needed to log in.
const ClustersQuery = `
fragment Cluster on Cluster_v1 {
  name
  serverUrl
  consoleUrl
  auth {
    service
  }
  spec {
    hypershift
  }
}

query Clusters {
  clusters: clusters_v1 {
    ... Cluster
  }
}
`

// NamespacesQuery lists every namespace with the cluster it lives on.
const NamespacesQuery = `
query Namespaces {
  namespaces: namespaces_v1 {
    name
    delete
    cluster {
      name
      serverUrl
      consoleUrl
      auth {
        service
      }
      spec {
        hypershift
      }
    }
  }
}
`

// Querier runs a GraphQL query and decodes its data object.
type Querier interface {
	Query(ctx context.Context, query string, out any) error
}

// Service lists clusters and namespaces from the catalog.
type Service struct {
	querier Querier
	logger  *slog.Logger
}

// NewService creates a new catalog service.
func NewService(querier Querier, logger *slog.Logger) *Service {
	return &Service{
		querier: querier,
		logger:  logger,
	}
}

// ListClusters returns the catalog clusters that declare at least one auth method.
func (s *Service) ListClusters(ctx context.Context) ([]domain.Cluster, error) {
	var data clustersData
	if err := s.querier.Query(ctx, ClustersQuery, &data); err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}

	clusters := make([]domain.Cluster, 0, len(data.Clusters))
	for _, c := range data.Clusters {
		if c.Name == "" {
			s.logger.WarnContext(ctx, "Skipping cluster without a name", "serverUrl", c.ServerURL)
			continue
		}
		if len(c.Auth) == 0 {
			s.logger.DebugContext(ctx, "Skipping cluster without auth", "cluster", c.Name)
			continue
		}
		clusters = append(clusters, c.toDomain())
	}

	s.logger.DebugContext(ctx, "Fetched clusters from catalog", "count", len(clusters))
	return clusters, nil
}

// ListNamespaces returns the catalog namespaces that are not marked for deletion.
func (s *Service) ListNamespaces(ctx context.Context) ([]domain.Namespace, error) {
	var data namespacesData
	if err := s.querier.Query(ctx, NamespacesQuery, &data); err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}

	namespaces := make([]domain.Namespace, 0, len(data.Namespaces))
	for _, ns := range data.Namespaces {
		if ns.Delete {
			continue
		}
		if ns.Name == "" || ns.Cluster.Name == "" {
			s.logger.WarnContext(ctx, "Skipping invalid namespace", "name", ns.Name, "cluster", ns.Cluster.Name)
			continue
		}
		namespaces = append(namespaces, domain.Namespace{
			Name:    ns.Name,
			Cluster: ns.Cluster.toDomain(),
		})
	}

	s.logger.DebugContext(ctx, "Fetched namespaces from catalog", "count", len(namespaces))
	return namespaces, nil
}

// NamespacesOf filters namespaces down to those on the named cluster.
func NamespacesOf(namespaces []domain.Namespace, cluster string) []domain.Namespace {
	var out []domain.Namespace
	for _, ns := range namespaces {
		if ns.Cluster.Name == cluster {
			out = append(out, ns)
		}
	}
	return out
}

type clustersData struct {
	Clusters []clusterData `json:"clusters"`
}

type namespacesData struct {
	Namespaces []namespaceData `json:"namespaces"`
}

type namespaceData struct {
	Name    string      `json:"name"`
	Delete  bool        `json:"delete"`
	Cluster clusterData `json:"cluster"`
}

type clusterData struct {
	Name       string     `json:"name"`
	ServerURL  string     `json:"serverUrl"`
	ConsoleURL string     `json:"consoleUrl"`
	Auth       []authData `json:"auth"`
	Spec       *specData  `json:"spec"`
}

type authData struct {
	Service string `json:"service"`
	Name    string `json:"name"`
}

type specData struct {
	Hypershift bool `json:"hypershift"`
}

func (c clusterData) toDomain() domain.Cluster {
	cluster := domain.Cluster{
		Name:       c.Name,
		ServerURL:  c.ServerURL,
		ConsoleURL: c.ConsoleURL,
		Hypershift: c.Spec != nil && c.Spec.Hypershift,
	}
	for _, a := range c.Auth {
		method := a.Service
		if a.Name != "" {
			method = a.Name
		}
		if method != "" {
			cluster.AuthMethods = append(cluster.AuthMethods, method)
		}
	}
	return cluster
}
