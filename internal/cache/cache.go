// Package cache is an in-process expiring cache for LLM and research responses.
//
// Entries are evicted lazily: an entry read at or after its expiry is a miss and is
// removed. There is no size bound and no background sweeper.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/michela/coach/internal/metrics"
)

// Key returns the hex md5 digest of input. The digest is a cache key, not a security boundary.
func Key(input string) string {
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}

type entry struct {
	value     string
	expiresAt time.Time
}

// Cache is safe for concurrent use. Concurrent writes to one key are last-write-wins.
type Cache struct {
	name    string
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(c *Cache) { c.now = now } }

// New creates an empty cache; name labels its metrics.
func New(name string, opts ...Option) *Cache {
	c := &Cache{name: name, now: time.Now, entries: make(map[string]entry)}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the value stored under key and its expiry.
func (c *Cache) Get(key string) (string, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		metrics.CacheLookupsTotal.WithLabelValues(c.name, "miss").Inc()
		return "", time.Time{}, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		metrics.CacheLookupsTotal.WithLabelValues(c.name, "expired").Inc()
		return "", time.Time{}, false
	}
	metrics.CacheLookupsTotal.WithLabelValues(c.name, "hit").Inc()
	return e.value, e.expiresAt, true
}

// Put stores value under key for ttl and returns the expiry.
func (c *Cache) Put(key, value string, ttl time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := c.now().Add(ttl)
	c.entries[key] = entry{value: value, expiresAt: exp}
	return exp
}

// Len counts stored entries, expired ones included until they are next read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Result is the outcome of Do.
type Result struct {
	Value     string
	ExpiresAt time.Time
	// Cached is true when the value was served from an existing entry.
	Cached bool
}

// Do returns the live entry for key or runs fn, storing its value for ttl on success.
// Concurrent callers of Do for the same key share a single fn call, which is not cancelled
// when the caller that started it goes away. Errors are never cached.
func (c *Cache) Do(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) (string, error)) (Result, error) {
	if v, exp, ok := c.Get(key); ok {
		return Result{Value: v, ExpiresAt: exp, Cached: true}, nil
	}
	// The flight outlives any single caller; each caller still stops waiting on its own ctx.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// another flight may have filled the entry while this one queued
		if v, exp, ok := c.Get(key); ok {
			return Result{Value: v, ExpiresAt: exp, Cached: true}, nil
		}
		v, err := fn(flightCtx)
		if err != nil {
			return Result{}, err
		}
		return Result{Value: v, ExpiresAt: c.Put(key, v, ttl)}, nil
	})
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return Result{}, r.Err
		}
		return r.Val.(Result), nil
	}
}
