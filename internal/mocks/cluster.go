package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ocl/internal/domain"
)

// MockClusterRegistry is a mock of domain.ClusterRegistry.
type MockClusterRegistry struct {
	mock.Mock
}

// NewMockClusterRegistry creates a new MockClusterRegistry.
func NewMockClusterRegistry(t testingT) *MockClusterRegistry {
	m := &MockClusterRegistry{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockClusterRegistry) All(ctx context.Context) ([]domain.Cluster, error) {
	args := m.Called(ctx)
	clusters, _ := args.Get(0).([]domain.Cluster)
	return clusters, args.Error(1)
}

func (m *MockClusterRegistry) Find(ctx context.Context, name string) (domain.Cluster, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.Cluster), args.Error(1)
}

// MockClusterLister is a mock of domain.ClusterLister.
type MockClusterLister struct {
	mock.Mock
}

// NewMockClusterLister creates a new MockClusterLister.
func NewMockClusterLister(t testingT) *MockClusterLister {
	m := &MockClusterLister{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockClusterLister) ListClusters(ctx context.Context) ([]domain.Cluster, error) {
	args := m.Called(ctx)
	clusters, _ := args.Get(0).([]domain.Cluster)
	return clusters, args.Error(1)
}

// MockNamespaceLister is a mock of domain.NamespaceLister.
type MockNamespaceLister struct {
	mock.Mock
}

// NewMockNamespaceLister creates a new MockNamespaceLister.
func NewMockNamespaceLister(t testingT) *MockNamespaceLister {
	m := &MockNamespaceLister{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockNamespaceLister) ListNamespaces(ctx context.Context) ([]domain.Namespace, error) {
	args := m.Called(ctx)
	namespaces, _ := args.Get(0).([]domain.Namespace)
	return namespaces, args.Error(1)
}
