// Package kubeconfig locates and inspects the per-cluster session files the
// oc client writes.
package kubeconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"

	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
)

const (
	dirPermissions = 0o700 // Owner-only access

	sessionFilePrefix = "config_"
)

// Manager handles per-cluster kubeconfig files.
type Manager struct {
	fs            domain.FileSystemAdapter
	kubeconfigDir string
	logger        *slog.Logger
}

// NewManager creates a new kubeconfig manager.
func NewManager(fs domain.FileSystemAdapter, kubeconfigDir string, logger *slog.Logger) (*Manager, error) {
	if err := fs.MkdirAll(kubeconfigDir, dirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create kubeconfig directory: %w", err)
	}

	return &Manager{
		fs:            fs,
		kubeconfigDir: kubeconfigDir,
		logger:        logger,
	}, nil
}

// SessionFile returns the session file of cluster, e.g. ~/.kube/config_prod1.
// Sessions of different clusters never share a file.
func (m *Manager) SessionFile(cluster domain.Cluster) (string, error) {
	name := cluster.Name
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", cerrors.NewValidationError("name", name, "format", "cluster name cannot be used as a file name")
	}
	return filepath.Join(m.kubeconfigDir, sessionFilePrefix+name), nil
}

// HasCredentials reports whether the current context of the kubeconfig at
// path carries a token or client certificate. A missing file has none.
func (m *Manager) HasCredentials(ctx context.Context, path string) (bool, error) {
	config, err := m.load(path)
	if err != nil || config == nil {
		return false, err
	}

	current, ok := config.Contexts[config.CurrentContext]
	if !ok {
		m.logger.DebugContext(ctx, "Kubeconfig has no current context", "path", path)
		return false, nil
	}
	authInfo, ok := config.AuthInfos[current.AuthInfo]
	if !ok {
		return false, nil
	}

	hasToken := authInfo.Token != "" || authInfo.TokenFile != ""
	hasCert := (len(authInfo.ClientCertificateData) > 0 || authInfo.ClientCertificate != "") &&
		(len(authInfo.ClientKeyData) > 0 || authInfo.ClientKey != "")
	return hasToken || hasCert || authInfo.Exec != nil, nil
}

// CurrentNamespace returns the namespace of the current context, or "" when
// none is set.
func (m *Manager) CurrentNamespace(_ context.Context, path string) (string, error) {
	config, err := m.load(path)
	if err != nil || config == nil {
		return "", err
	}
	if current, ok := config.Contexts[config.CurrentContext]; ok {
		return current.Namespace, nil
	}
	return "", nil
}

// Remove deletes the session file of cluster. A missing file is not an error.
func (m *Manager) Remove(ctx context.Context, cluster domain.Cluster) error {
	path, err := m.SessionFile(cluster)
	if err != nil {
		return err
	}
	if err := m.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file %s: %w", path, err)
	}
	m.logger.DebugContext(ctx, "Removed session file", "path", path)
	return nil
}

// load parses the kubeconfig at path. It returns nil without error when the
// file does not exist.
func (m *Manager) load(path string) (*api.Config, error) {
	content, err := m.fs.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read kubeconfig %s: %w", path, err)
	}

	config, err := clientcmd.Load(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kubeconfig %s: %w", path, err)
	}
	return config, nil
}
