package mocks

import (
	"os"

	"github.com/stretchr/testify/mock"
)

// MockFileSystemAdapter is a mock of domain.FileSystemAdapter.
type MockFileSystemAdapter struct {
	mock.Mock
}

// NewMockFileSystemAdapter creates a new MockFileSystemAdapter.
func NewMockFileSystemAdapter(t testingT) *MockFileSystemAdapter {
	m := &MockFileSystemAdapter{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockFileSystemAdapter) ReadFile(path string) ([]byte, error) {
	args := m.Called(path)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockFileSystemAdapter) WriteFile(path string, data []byte, perm os.FileMode) error {
	args := m.Called(path, data, perm)
	return args.Error(0)
}

func (m *MockFileSystemAdapter) CreateExclusive(path string, data []byte, perm os.FileMode) error {
	args := m.Called(path, data, perm)
	return args.Error(0)
}

func (m *MockFileSystemAdapter) MkdirAll(path string, perm os.FileMode) error {
	args := m.Called(path, perm)
	return args.Error(0)
}

func (m *MockFileSystemAdapter) Remove(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockFileSystemAdapter) Stat(path string) (os.FileInfo, error) {
	args := m.Called(path)
	info, _ := args.Get(0).(os.FileInfo)
	return info, args.Error(1)
}

func (m *MockFileSystemAdapter) Chmod(path string, perm os.FileMode) error {
	args := m.Called(path, perm)
	return args.Error(0)
}

func (m *MockFileSystemAdapter) UserHomeDir() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockFileSystemAdapter) UserCacheDir() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockFileSystemAdapter) TempDir() string {
	args := m.Called()
	return args.String(0)
}
