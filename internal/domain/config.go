package domain

import "context"

// ConfigRepository manages the user-defined clusters in the ocl configuration.
type ConfigRepository interface {
	GetClusters(ctx context.Context) ([]Cluster, error)
	AddCluster(ctx context.Context, cluster Cluster) error
	RemoveCluster(ctx context.Context, name string) error
	SaveConfig(ctx context.Context) error
	LoadConfig(ctx context.Context) error
}

// ConfigProvider provides configuration paths and defaults.
type ConfigProvider interface {
	GetConfigPath() (string, error)
	GetKubeconfigDir() (string, error)
	GetCacheDir() (string, error)
	GetLockDir() string
}

// VariableSource resolves OCL_* settings.
type VariableSource interface {
	// Get returns a required value, prompting the user when it is not configured.
	Get(ctx context.Context, name string) (string, error)
	// GetSecret is Get with masked prompting.
	GetSecret(ctx context.Context, name string) (string, error)
	// GetDefault returns the configured value or def. It never prompts.
	GetDefault(ctx context.Context, name, def string) (string, error)
}

// Prompter asks the user for a single line of input.
type Prompter interface {
	Prompt(label string, secret bool) (string, error)
}
