package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Freshness windows used when the caller does not pick one.
const (
	DefaultTTL       = 15 * time.Minute
	CurrentMonthTTL  = 30 * time.Minute
	PreviousMonthTTL = 6 * time.Hour
	OlderMonthsTTL   = 24 * time.Hour
)

type entry struct {
	data      any
	createdAt time.Time
	ttl       time.Duration
}

// Cache is an unbounded in-memory key/value store with per-entry TTL.
// Expired entries are removed when they are read.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
}

type Option func(*Cache)

func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]entry),
		defaultTTL: DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key unless it is missing or older than its TTL.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().Sub(e.createdAt) > e.ttl {
		c.mu.Lock()
		// Another writer may have refreshed the key meanwhile.
		if cur, ok := c.entries[key]; ok && cur.createdAt.Equal(e.createdAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		slog.Debug("Cache entry expired", "key", key)
		return nil, false
	}
	return e.data, true
}

// Set stores value under key. A non-positive ttl selects the default TTL.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{data: value, createdAt: c.now(), ttl: ttl}
}

func (c *Cache) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len counts stored entries, including expired ones not yet read.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Lookup is Get with a type assertion. A value of another type is a miss.
func Lookup[T any](c *Cache, key string) (T, bool) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
