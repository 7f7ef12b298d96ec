// Package cache provides the on-disk response cache for catalog queries.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
)

const keyPrefix = "gql:"

// Store implements domain.QueryCache on BadgerDB. Entries expire through
// Badger's native TTL.
type Store struct {
	db     *badgerdb.DB
	logger *slog.Logger
}

// Open opens the cache in dir. When the directory is unusable, for instance
// because another ocl process holds it open, an in-memory cache is used for
// the lifetime of this process.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	db, err := badgerdb.Open(badgerdb.DefaultOptions(dir).WithLogger(nil))
	if err == nil {
		return &Store{db: db, logger: logger}, nil
	}

	logger.Debug("Falling back to in-memory query cache", "dir", dir, "error", err)
	db, memErr := badgerdb.Open(badgerdb.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if memErr != nil {
		return nil, fmt.Errorf("failed to open query cache at %s: %w", dir, errors.Join(err, memErr))
	}
	return &Store{db: db, logger: logger}, nil
}

// Get returns the cached value for key. Expired entries are reported as misses.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var value []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return value, true, nil
}

// Set stores value under key for ttl. A non-positive ttl disables caching.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		return nil
	}

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.SetEntry(badgerdb.NewEntry([]byte(keyPrefix+key), value).WithTTL(ttl))
	})
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Clear drops every cached entry.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.DropPrefix([]byte(keyPrefix)); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}
