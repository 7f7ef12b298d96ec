package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"ocl/internal/domain"
)

// MockConfigRepository is a mock of domain.ConfigRepository.
type MockConfigRepository struct {
	mock.Mock
}

// NewMockConfigRepository creates a new MockConfigRepository.
func NewMockConfigRepository(t testingT) *MockConfigRepository {
	m := &MockConfigRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockConfigRepository) GetClusters(ctx context.Context) ([]domain.Cluster, error) {
	args := m.Called(ctx)
	clusters, _ := args.Get(0).([]domain.Cluster)
	return clusters, args.Error(1)
}

func (m *MockConfigRepository) AddCluster(ctx context.Context, cluster domain.Cluster) error {
	args := m.Called(ctx, cluster)
	return args.Error(0)
}

func (m *MockConfigRepository) RemoveCluster(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockConfigRepository) SaveConfig(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockConfigRepository) LoadConfig(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockVariableSource is a mock of domain.VariableSource.
type MockVariableSource struct {
	mock.Mock
}

// NewMockVariableSource creates a new MockVariableSource.
func NewMockVariableSource(t testingT) *MockVariableSource {
	m := &MockVariableSource{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockVariableSource) Get(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockVariableSource) GetSecret(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockVariableSource) GetDefault(ctx context.Context, name, def string) (string, error) {
	args := m.Called(ctx, name, def)
	return args.String(0), args.Error(1)
}

// MockPrompter is a mock of domain.Prompter.
type MockPrompter struct {
	mock.Mock
}

// NewMockPrompter creates a new MockPrompter.
func NewMockPrompter(t testingT) *MockPrompter {
	m := &MockPrompter{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPrompter) Prompt(label string, secret bool) (string, error) {
	args := m.Called(label, secret)
	return args.String(0), args.Error(1)
}

// MockQueryCache is a mock of domain.QueryCache.
type MockQueryCache struct {
	mock.Mock
}

// NewMockQueryCache creates a new MockQueryCache.
func NewMockQueryCache(t testingT) *MockQueryCache {
	m := &MockQueryCache{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockQueryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	value, _ := args.Get(0).([]byte)
	return value, args.Bool(1), args.Error(2)
}

func (m *MockQueryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockQueryCache) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockConfigProvider is a mock of domain.ConfigProvider.
type MockConfigProvider struct {
	mock.Mock
}

// NewMockConfigProvider creates a new MockConfigProvider.
func NewMockConfigProvider(t testingT) *MockConfigProvider {
	m := &MockConfigProvider{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockConfigProvider) GetConfigPath() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockConfigProvider) GetKubeconfigDir() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockConfigProvider) GetCacheDir() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockConfigProvider) GetLockDir() string {
	args := m.Called()
	return args.String(0)
}
