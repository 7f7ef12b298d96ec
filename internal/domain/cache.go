package domain

import (
	"context"
	"time"
)

// QueryCache stores catalog responses keyed by query fingerprint.
type QueryCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Clear(ctx context.Context) error
}
