package domain

import (
	"context"
	"time"
)

// Locker provides host-wide mutual exclusion with a bounded lease lifetime.
type Locker interface {
	// Acquire blocks until the named lock is held or timeout elapses.
	Acquire(ctx context.Context, name string, lifetime, timeout time.Duration) (Lease, error)
}

// Lease is an acquired lock. Release is idempotent.
type Lease interface {
	Release() error
}
