package domain

import "context"

// Cluster identifies a remote control plane. It is a read-only value borrowed
// for the duration of one login.
type Cluster struct {
	Name        string   `yaml:"name"                  json:"name"`
	ServerURL   string   `yaml:"serverUrl"             json:"serverUrl"`
	ConsoleURL  string   `yaml:"consoleUrl"            json:"consoleUrl"`
	AuthMethods []string `yaml:"authMethods,omitempty" json:"authMethods,omitempty"`
	Hypershift  bool     `yaml:"hypershift,omitempty"  json:"hypershift,omitempty"`
}

// Namespace is a project on a cluster as known by the catalog.
type Namespace struct {
	Name    string
	Cluster Cluster
	Delete  bool
}

// ClusterLister lists the clusters known to the catalog.
type ClusterLister interface {
	ListClusters(ctx context.Context) ([]Cluster, error)
}

// NamespaceLister lists the namespaces known to the catalog.
type NamespaceLister interface {
	ListNamespaces(ctx context.Context) ([]Namespace, error)
}

// ClusterRegistry resolves clusters from the catalog merged with user overrides.
type ClusterRegistry interface {
	All(ctx context.Context) ([]Cluster, error)
	Find(ctx context.Context, name string) (Cluster, error)
}

// ClusterFilter determines whether a cluster should be excluded from listings.
type ClusterFilter interface {
	ShouldExclude(clusterName string) bool
}
