package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ocl/internal/domain"
)

// MockIdpSelector is a mock of domain.IdpSelector.
type MockIdpSelector struct {
	mock.Mock
}

// NewMockIdpSelector creates a new MockIdpSelector.
func NewMockIdpSelector(t testingT) *MockIdpSelector {
	m := &MockIdpSelector{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockIdpSelector) SelectIdp(ctx context.Context, consoleURL string, candidates []string) (string, bool) {
	args := m.Called(ctx, consoleURL, candidates)
	return args.String(0), args.Bool(1)
}

// MockTokenAcquirer is a mock of domain.TokenAcquirer.
type MockTokenAcquirer struct {
	mock.Mock
}

// NewMockTokenAcquirer creates a new MockTokenAcquirer.
func NewMockTokenAcquirer(t testingT) *MockTokenAcquirer {
	m := &MockTokenAcquirer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTokenAcquirer) AcquireToken(ctx context.Context, cluster domain.Cluster, strategy domain.TokenStrategy) (string, error) {
	args := m.Called(ctx, cluster, strategy)
	return args.String(0), args.Error(1)
}

// MockTokenReader is a mock of domain.TokenReader.
type MockTokenReader struct {
	mock.Mock
}

// NewMockTokenReader creates a new MockTokenReader.
func NewMockTokenReader(t testingT) *MockTokenReader {
	m := &MockTokenReader{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTokenReader) ReadToken(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockTokenReader) IsInteractive() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockBrowserOpener is a mock of domain.BrowserOpener.
type MockBrowserOpener struct {
	mock.Mock
}

// NewMockBrowserOpener creates a new MockBrowserOpener.
func NewMockBrowserOpener(t testingT) *MockBrowserOpener {
	m := &MockBrowserOpener{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBrowserOpener) Open(url string) error {
	args := m.Called(url)
	return args.Error(0)
}
