package readings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CacheObserver receives cache events. All methods must be safe for
// concurrent use.
type CacheObserver interface {
	CacheHit(identity string)
	CacheMiss(identity string)
	Loaded(identity string, rows int, took time.Duration, err error)
}

type cacheEntry struct {
	version string
	table   *Table
}

// DefaultLoadTimeout bounds a shared load once it no longer follows the
// context of the caller that started it.
const DefaultLoadTimeout = 2 * time.Minute

// Cache memoizes loaded tables by source identity. An entry is reused while
// the source reports the same version. Concurrent misses for one identity
// share a single load. Failed loads are not stored.
type Cache struct {
	opts        Options
	observer    CacheObserver
	loadTimeout time.Duration

	mu          sync.RWMutex
	entries     map[string]cacheEntry
	generations map[string]uint64
	epoch       uint64
	group       singleflight.Group
}

// NewCache returns an empty cache that loads tables with opts.
func NewCache(opts Options, observer CacheObserver) *Cache {
	return &Cache{
		opts:        opts,
		observer:    observer,
		loadTimeout: DefaultLoadTimeout,
		entries:     make(map[string]cacheEntry),
		generations: make(map[string]uint64),
	}
}

// Get returns the table for src, loading it when it is not cached or the
// source version changed. On failure the returned table is empty.
//
// The load itself is detached from ctx: a caller whose ctx ends stops
// waiting, while the load carries on for the callers sharing it.
func (c *Cache) Get(ctx context.Context, src Source) (*Table, error) {
	id := src.Identity()

	version, err := src.Version(ctx)
	if err != nil {
		c.Invalidate(id)
		return Empty(), classifyOpenError(id, err)
	}

	c.mu.RLock()
	entry, ok := c.entries[id]
	gen := c.generation(id)
	c.mu.RUnlock()
	if ok && entry.version == version {
		if c.observer != nil {
			c.observer.CacheHit(id)
		}
		return entry.table, nil
	}
	if c.observer != nil {
		c.observer.CacheMiss(id)
	}

	key := fmt.Sprintf("%s\x00%s\x00%d", id, version, gen)
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.load(loadCtx, src, id, version, gen)
	})

	select {
	case res := <-ch:
		return res.Val.(*Table), res.Err
	case <-ctx.Done():
		return Empty(), ctx.Err()
	}
}

func (c *Cache) load(ctx context.Context, src Source, id, version string, gen uint64) (*Table, error) {
	ctx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	started := time.Now()
	table, err := Load(ctx, src, c.opts)
	if c.observer != nil {
		c.observer.Loaded(id, table.Len(), time.Since(started), err)
	}
	if err != nil {
		return table, err
	}

	c.mu.Lock()
	// An Invalidate during the load makes this table stale for the cache,
	// though callers that joined before it still receive it.
	if c.generation(id) == gen {
		c.entries[id] = cacheEntry{version: version, table: table}
	}
	c.mu.Unlock()
	return table, nil
}

// Invalidate drops the entry for identity, forcing the next Get to reload.
// A load already running for identity is not joined by later calls.
func (c *Cache) Invalidate(identity string) {
	c.mu.Lock()
	delete(c.entries, identity)
	c.generations[identity]++
	c.mu.Unlock()
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.epoch++
	c.mu.Unlock()
}

// generation changes whenever identity is invalidated or the cache purged.
// Callers hold c.mu.
func (c *Cache) generation(identity string) uint64 {
	return c.epoch + c.generations[identity]
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
