// Package lock provides host-wide mutual exclusion for logins through lease
// files. A lease that outlives its lifetime is considered abandoned and may be
// broken by the next waiter.
package lock

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/wait"

	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
)

const (
	defaultPollInterval = 200 * time.Millisecond
	// guardLifetime is the age after which a break guard counts as abandoned.
	guardLifetime  = 10 * time.Second
	releaseTimeout = guardLifetime + time.Second
)

// leaseRecord is the content of a lock file.
type leaseRecord struct {
	Holder     string        `yaml:"holder"`
	PID        int           `yaml:"pid"`
	Host       string        `yaml:"host"`
	AcquiredAt time.Time     `yaml:"acquiredAt"`
	Lifetime   time.Duration `yaml:"lifetime"`
}

func (r leaseRecord) describe() string {
	return fmt.Sprintf("pid %d on %s since %s", r.PID, r.Host, r.AcquiredAt.Format(time.RFC3339))
}

// Option configures a FileLocker.
type Option func(*FileLocker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *FileLocker) {
		l.now = now
	}
}

// WithPollInterval sets how often a waiter re-checks the lock.
func WithPollInterval(interval time.Duration) Option {
	return func(l *FileLocker) {
		l.pollInterval = interval
	}
}

// FileLocker implements domain.Locker with exclusive-create lease files.
type FileLocker struct {
	fs           domain.FileSystemAdapter
	dir          string
	logger       *slog.Logger
	now          func() time.Time
	pollInterval time.Duration
	pid          int
	host         string
}

// NewFileLocker creates a locker keeping lease files in dir.
func NewFileLocker(fs domain.FileSystemAdapter, dir string, logger *slog.Logger, opts ...Option) *FileLocker {
	host, _ := os.Hostname()
	l := &FileLocker{
		fs:           fs,
		dir:          dir,
		logger:       logger,
		now:          time.Now,
		pollInterval: defaultPollInterval,
		pid:          os.Getpid(),
		host:         host,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire blocks until the named lock is held, timeout elapses or ctx is done.
func (l *FileLocker) Acquire(ctx context.Context, name string, lifetime, timeout time.Duration) (domain.Lease, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, cerrors.NewValidationError("name", name, "format", "lock name must be a plain file name")
	}
	if err := l.fs.MkdirAll(l.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	path := filepath.Join(l.dir, name+".lock")
	record := leaseRecord{
		Holder:   uuid.NewString(),
		PID:      l.pid,
		Host:     l.host,
		Lifetime: lifetime,
	}

	var holder string
	err := wait.PollUntilContextTimeout(ctx, l.pollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		record.AcquiredAt = l.now()
		acquired, current, err := l.tryAcquire(ctx, path, record, lifetime)
		holder = current
		return acquired, err
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if wait.Interrupted(err) {
			return nil, cerrors.NewLockTimeoutError(name, timeout, holder)
		}
		return nil, err
	}

	l.logger.DebugContext(ctx, "Lock acquired", "lock", name, "lifetime", lifetime)
	return &lease{locker: l, path: path, holder: record.Holder, name: name}, nil
}

// tryAcquire makes one attempt. It reports the current holder when the lock is busy.
func (l *FileLocker) tryAcquire(ctx context.Context, path string, record leaseRecord, lifetime time.Duration) (bool, string, error) {
	data, err := yaml.Marshal(record)
	if err != nil {
		return false, "", fmt.Errorf("failed to encode lease: %w", err)
	}

	err = l.fs.CreateExclusive(path, data, 0o644)
	if err == nil {
		return true, "", nil
	}
	if !errors.Is(err, os.ErrExist) {
		return false, "", fmt.Errorf("failed to create lock file %s: %w", path, err)
	}

	seen := l.inspect(path, lifetime)
	if !seen.stale {
		return false, seen.holder, nil
	}

	var broken bool
	held, err := l.withGuard(ctx, path, func() error {
		var err error
		broken, err = l.breakIfUnchanged(ctx, path, seen)
		return err
	})
	if err != nil || !held || !broken {
		return false, seen.holder, err
	}

	err = l.fs.CreateExclusive(path, data, 0o644)
	if err == nil {
		return true, "", nil
	}
	if errors.Is(err, os.ErrExist) {
		return false, seen.holder, nil
	}
	return false, seen.holder, fmt.Errorf("failed to create lock file %s: %w", path, err)
}

// breakIfUnchanged removes the lease at path if it still holds what was seen.
// Callers hold the break guard; lease files are only removed under it, so a
// file that reads the same is still the stale lease.
func (l *FileLocker) breakIfUnchanged(ctx context.Context, path string, seen observation) (bool, error) {
	data, err := l.fs.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return true, nil
	case err != nil:
		if seen.readable {
			return false, nil
		}
	case !seen.readable || !bytes.Equal(data, seen.data):
		return false, nil
	}

	l.logger.WarnContext(ctx, "Breaking stale lock", "path", path, "holder", seen.holder)
	if err := l.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to break stale lock %s: %w", path, err)
	}
	return true, nil
}

// withGuard runs fn while holding the break guard of the lease at path. It
// reports false without running fn when another process holds the guard.
func (l *FileLocker) withGuard(ctx context.Context, path string, fn func() error) (bool, error) {
	guard := path + ".break"
	err := l.fs.CreateExclusive(guard, []byte(strconv.Itoa(l.pid)), 0o644)
	if errors.Is(err, os.ErrExist) {
		l.clearAbandonedGuard(ctx, guard)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create lock guard %s: %w", guard, err)
	}

	defer func() {
		if err := l.fs.Remove(guard); err != nil && !errors.Is(err, os.ErrNotExist) {
			l.logger.WarnContext(ctx, "Failed to remove lock guard", "path", guard, "error", err)
		}
	}()
	return true, fn()
}

// clearAbandonedGuard removes a guard left behind by a process that died
// while holding it. Guards are held for a few file operations at most.
func (l *FileLocker) clearAbandonedGuard(ctx context.Context, guard string) {
	info, err := l.fs.Stat(guard)
	if err != nil || time.Since(info.ModTime()) < guardLifetime {
		return
	}
	l.logger.WarnContext(ctx, "Removing abandoned lock guard", "path", guard)
	if err := l.fs.Remove(guard); err != nil && !errors.Is(err, os.ErrNotExist) {
		l.logger.WarnContext(ctx, "Failed to remove lock guard", "path", guard, "error", err)
	}
}

// observation is what a waiter saw in a busy lock file.
type observation struct {
	data     []byte
	readable bool
	holder   string
	stale    bool
}

// inspect describes the current holder and whether its lease has run out.
// Unreadable lease files age by modification time.
func (l *FileLocker) inspect(path string, lifetime time.Duration) observation {
	now := l.now()

	data, err := l.fs.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return observation{stale: true}
	}
	seen := observation{data: data, readable: err == nil, holder: "unknown holder"}

	var record leaseRecord
	if err == nil && yaml.Unmarshal(data, &record) == nil && !record.AcquiredAt.IsZero() {
		held := record.Lifetime
		if held <= 0 {
			held = lifetime
		}
		seen.holder = record.describe()
		seen.stale = now.After(record.AcquiredAt.Add(held))
		return seen
	}

	info, statErr := l.fs.Stat(path)
	if statErr != nil {
		seen.stale = errors.Is(statErr, os.ErrNotExist)
		return seen
	}
	seen.stale = now.After(info.ModTime().Add(lifetime))
	return seen
}

// lease is a held lock file.
type lease struct {
	locker *FileLocker
	path   string
	holder string
	name   string
	once   sync.Once
	err    error
}

// Release removes the lock file if this lease still owns it. Calling it more
// than once is a no-op.
func (le *lease) Release() error {
	le.once.Do(func() {
		le.err = le.release()
	})
	return le.err
}

func (le *lease) release() error {
	l := le.locker
	err := wait.PollUntilContextTimeout(context.Background(), l.pollInterval, releaseTimeout, true,
		func(ctx context.Context) (bool, error) {
			return l.withGuard(ctx, le.path, le.removeIfOwned)
		})
	if wait.Interrupted(err) {
		return fmt.Errorf("timed out releasing lock %s; it will expire after its lifetime", le.name)
	}
	return err
}

func (le *lease) removeIfOwned() error {
	data, err := le.locker.fs.ReadFile(le.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read lock file %s: %w", le.path, err)
	}

	var record leaseRecord
	if err := yaml.Unmarshal(data, &record); err != nil || record.Holder != le.holder {
		le.locker.logger.Warn("Lock was taken over by another process", "lock", le.name)
		return nil
	}

	if err := le.locker.fs.Remove(le.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file %s: %w", le.path, err)
	}
	le.locker.logger.Debug("Lock released", "lock", le.name)
	return nil
}

// Name returns the lock name for a login. A per-cluster lock serializes
// logins to the same cluster only.
func Name(cluster string, perCluster bool) string {
	if perCluster && cluster != "" {
		return "ocl." + cluster
	}
	return "ocl"
}
