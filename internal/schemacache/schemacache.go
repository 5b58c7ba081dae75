// Package schemacache keeps fetched field-schema listings in memory using
// github.com/hashicorp/golang-lru/v2, with a per-entry expiry.
//
// A cache built with a zero TTL stores nothing, so every lookup goes to the
// loader. That is the default: field definitions can change at any time on
// the service side.
package schemacache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/breeze-go/breeze/normalize"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize bounds the number of listings kept. One entry per form plus
// the profile listing.
const DefaultSize = 256

// ProfileKey is the key of the organization's profile-field listing.
const ProfileKey = "profile"

// FormKey returns the key of a form's field listing.
func FormKey(formID int64) string {
	return "form:" + strconv.FormatInt(formID, 10)
}

type item struct {
	groups    []normalize.FieldGroup
	expiresAt time.Time
}

func (it *item) expired(now time.Time) bool {
	return now.After(it.expiresAt)
}

// Loader fetches a listing when it is not cached.
type Loader func(ctx context.Context) ([]normalize.FieldGroup, error)

// Cache is safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *item]
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache holding up to size listings for ttl each. A size of 0
// uses DefaultSize.
func New(size int, ttl time.Duration, opts ...Option) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[string, *item](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	c := &Cache{cache: cache, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Enabled reports whether entries are retained at all.
func (c *Cache) Enabled() bool {
	return c != nil && c.ttl > 0
}

// Get returns the cached listing for key. Expired entries are removed.
func (c *Cache) Get(key string) ([]normalize.FieldGroup, bool) {
	if !c.Enabled() {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	if it.expired(c.now()) {
		c.cache.Remove(key)
		return nil, false
	}
	return it.groups, true
}

// Set stores groups under key until the TTL elapses.
func (c *Cache) Set(key string, groups []normalize.FieldGroup) {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	c.cache.Add(key, &item{groups: groups, expiresAt: c.now().Add(c.ttl)})
	c.mu.Unlock()
}

// GetOrLoad returns the cached listing or calls load and caches its result.
// Loader errors are returned as-is and nothing is cached. Concurrent misses
// for the same key may each call load.
func (c *Cache) GetOrLoad(ctx context.Context, key string, load Loader) ([]normalize.FieldGroup, error) {
	if groups, ok := c.Get(key); ok {
		return groups, nil
	}
	groups, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.Set(key, groups)
	return groups, nil
}

// Invalidate drops key, or every entry when key is empty.
func (c *Cache) Invalidate(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == "" {
		c.cache.Purge()
		return
	}
	c.cache.Remove(key)
}

// Len returns the number of entries, expired ones included.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}
