package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"ocl/internal/domain"
)

// MockLocker is a mock of domain.Locker.
type MockLocker struct {
	mock.Mock
}

// NewMockLocker creates a new MockLocker.
func NewMockLocker(t testingT) *MockLocker {
	m := &MockLocker{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLocker) Acquire(ctx context.Context, name string, lifetime, timeout time.Duration) (domain.Lease, error) {
	args := m.Called(ctx, name, lifetime, timeout)
	if lease, ok := args.Get(0).(domain.Lease); ok {
		return lease, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockLease is a mock of domain.Lease.
type MockLease struct {
	mock.Mock
}

// NewMockLease creates a new MockLease.
func NewMockLease(t testingT) *MockLease {
	m := &MockLease{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLease) Release() error {
	args := m.Called()
	return args.Error(0)
}
