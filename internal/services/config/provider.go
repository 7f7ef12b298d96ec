package config

import (
	"fmt"
	"path/filepath"

	"ocl/internal/domain"
)

// AppName names the per-user configuration and cache directories.
const AppName = "ocl"

// Provider provides configuration paths.
type Provider struct {
	fs         domain.FileSystemAdapter
	configPath string
}

// NewProvider creates a new configuration provider. A non-empty configPath
// overrides the default location of the configuration file.
func NewProvider(fs domain.FileSystemAdapter, configPath string) *Provider {
	return &Provider{
		fs:         fs,
		configPath: configPath,
	}
}

// GetConfigPath returns the path to the ocl configuration file.
func (p *Provider) GetConfigPath() (string, error) {
	if p.configPath != "" {
		return p.configPath, nil
	}
	homeDir, err := p.fs.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", AppName, "config.yaml"), nil
}

// GetKubeconfigDir returns the directory holding the per-cluster session files.
func (p *Provider) GetKubeconfigDir() (string, error) {
	homeDir, err := p.fs.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".kube"), nil
}

// GetCacheDir returns the directory of the catalog query cache.
func (p *Provider) GetCacheDir() (string, error) {
	cacheDir, err := p.fs.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(cacheDir, AppName, "gql_cache"), nil
}

// GetLockDir returns the directory lease files are created in. It is shared
// by every ocl process of the machine.
func (p *Provider) GetLockDir() string {
	return p.fs.TempDir()
}
