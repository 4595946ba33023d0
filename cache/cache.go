// Package cache implements the freshness protocol behind ETag revalidation.
//
// A Cache records, per absolute path, the ETag it handed out, the file's
// modification time at that moment and when the entry was last used. A
// client's ETag is fresh while the entry is inside its TTL, the file is
// unchanged on disk and the ETags match. Stale entries are evicted lazily on
// lookup.
//
// Entries live in a Store: NewMemoryStore for a process-local map, or the
// persistent stores in cache/leveldb and the database packages.
package cache

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/sagarc03/eir"
)

// Entry is one recorded resource.
type Entry struct {
	ETag       string
	ModTime    time.Time
	AccessedAt time.Time
}

// Store persists entries keyed by absolute path.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the entry for path; ok is false when none exists.
	Get(ctx context.Context, path string) (Entry, bool, error)
	// Put inserts or replaces the entry for path.
	Put(ctx context.Context, path string, e Entry) error
	// Delete removes the entry for path. Deleting a missing entry is not an error.
	Delete(ctx context.Context, path string) error
	// Len reports the number of stored entries.
	Len(ctx context.Context) (int, error)
	// Purge removes every entry.
	Purge(ctx context.Context) error
	Close() error
}

// Cache implements eir.FreshnessCache.
type Cache struct {
	mu    sync.Mutex
	ttl   time.Duration
	store Store
	now   func() time.Time
	stat  func(string) (fs.FileInfo, error)
}

type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache over store. A zero ttl disables caching.
func New(store Store, ttl time.Duration, opts ...Option) *Cache {
	if ttl < 0 {
		ttl = 0
	}
	c := &Cache{
		ttl:   ttl,
		store: store,
		now:   time.Now,
		stat:  os.Stat,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) Check(ctx context.Context, path, etag string) (eir.CacheStatus, error) {
	if c.ttl == 0 {
		return eir.CacheStale, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok, err := c.store.Get(ctx, path)
	if err != nil {
		return eir.CacheError, fmt.Errorf("check %s: %w", path, err)
	}
	if !ok {
		return eir.CacheStale, nil
	}

	now := c.now()
	if now.Sub(e.AccessedAt) > c.ttl {
		return c.evict(ctx, path)
	}

	info, err := c.stat(path)
	if err != nil {
		return eir.CacheError, fmt.Errorf("check %s: stat: %w", path, err)
	}

	if info.ModTime().Equal(e.ModTime) && e.ETag == etag {
		e.AccessedAt = now
		if err := c.store.Put(ctx, path, e); err != nil {
			return eir.CacheError, fmt.Errorf("check %s: touch: %w", path, err)
		}
		return eir.CacheFresh, nil
	}

	return c.evict(ctx, path)
}

func (c *Cache) evict(ctx context.Context, path string) (eir.CacheStatus, error) {
	if err := c.store.Delete(ctx, path); err != nil {
		return eir.CacheError, fmt.Errorf("evict %s: %w", path, err)
	}
	return eir.CacheStale, nil
}

func (c *Cache) Record(ctx context.Context, path string) (string, error) {
	if c.ttl == 0 {
		return "", nil
	}

	info, err := c.stat(path)
	if err != nil {
		return "", fmt.Errorf("record %s: stat: %w", path, err)
	}

	mod := info.ModTime()
	etag := ETag(path, mod)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Put(ctx, path, Entry{ETag: etag, ModTime: mod, AccessedAt: c.now()}); err != nil {
		return "", fmt.Errorf("record %s: %w", path, err)
	}
	return etag, nil
}

// Len reports the number of recorded entries, stale ones included.
func (c *Cache) Len(ctx context.Context) (int, error) {
	return c.store.Len(ctx)
}

func (c *Cache) Purge(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Purge(ctx)
}

func (c *Cache) Close() error {
	return c.store.Close()
}

// ETag derives the quoted validator for a path at a modification time.
func ETag(path string, mod time.Time) string {
	sum := xxhash.Sum64String(path + strconv.FormatInt(mod.UnixNano(), 10))
	return `"` + strconv.FormatUint(sum, 10) + `"`
}
