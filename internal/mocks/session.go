package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ocl/internal/domain"
)

// MockSessionProbe is a mock of domain.SessionProbe.
type MockSessionProbe struct {
	mock.Mock
}

// NewMockSessionProbe creates a new MockSessionProbe.
func NewMockSessionProbe(t testingT) *MockSessionProbe {
	m := &MockSessionProbe{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSessionProbe) IsSessionValid(ctx context.Context, cluster domain.Cluster) (bool, error) {
	args := m.Called(ctx, cluster)
	return args.Bool(0), args.Error(1)
}

// MockSessionEstablisher is a mock of domain.SessionEstablisher.
type MockSessionEstablisher struct {
	mock.Mock
}

// NewMockSessionEstablisher creates a new MockSessionEstablisher.
func NewMockSessionEstablisher(t testingT) *MockSessionEstablisher {
	m := &MockSessionEstablisher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSessionEstablisher) Login(ctx context.Context, cluster domain.Cluster, token string) error {
	args := m.Called(ctx, cluster, token)
	return args.Error(0)
}

func (m *MockSessionEstablisher) SwitchProject(ctx context.Context, cluster domain.Cluster, project string) error {
	args := m.Called(ctx, cluster, project)
	return args.Error(0)
}

func (m *MockSessionEstablisher) CurrentProject(ctx context.Context, cluster domain.Cluster) (string, error) {
	args := m.Called(ctx, cluster)
	return args.String(0), args.Error(1)
}

// MockKubeconfigInspector is a mock of domain.KubeconfigInspector.
type MockKubeconfigInspector struct {
	mock.Mock
}

// NewMockKubeconfigInspector creates a new MockKubeconfigInspector.
func NewMockKubeconfigInspector(t testingT) *MockKubeconfigInspector {
	m := &MockKubeconfigInspector{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockKubeconfigInspector) SessionFile(cluster domain.Cluster) (string, error) {
	args := m.Called(cluster)
	return args.String(0), args.Error(1)
}

func (m *MockKubeconfigInspector) HasCredentials(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (m *MockKubeconfigInspector) CurrentNamespace(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

// MockCommandRunner is a mock of domain.CommandRunner.
type MockCommandRunner struct {
	mock.Mock
}

// NewMockCommandRunner creates a new MockCommandRunner.
func NewMockCommandRunner(t testingT) *MockCommandRunner {
	m := &MockCommandRunner{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCommandRunner) Run(ctx context.Context, cmd domain.Command) (domain.CommandResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(domain.CommandResult), args.Error(1)
}
