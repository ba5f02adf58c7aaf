// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache is an in-process cache with per-entry expiry.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	defaultTTL time.Duration
	maxSize    int // 0 = unlimited
	stopCh     chan struct{}
	closed     atomic.Bool
	now        func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL      time.Duration
	MaxSize         int           // Maximum number of entries (0 = unlimited)
	CleanupInterval time.Duration // Interval for expired entry cleanup (0 = no cleanup)
}

// NewMemoryCache creates a new memory cache with the given options.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]memoryEntry),
		defaultTTL: opts.DefaultTTL,
		maxSize:    opts.MaxSize,
		stopCh:     make(chan struct{}),
		now:        time.Now,
	}
	if c.defaultTTL <= 0 {
		c.defaultTTL = time.Hour
	}
	if opts.CleanupInterval > 0 {
		go c.cleanupLoop(opts.CleanupInterval)
	}
	return c
}

// Get retrieves a copy of the cached value.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}

	c.hits.Add(1)
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set stores a copy of value. When the cache is full, expired entries are
// dropped first, then the entry closest to expiry.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictLocked()
	}
	c.entries[key] = memoryEntry{value: stored, expiresAt: c.now().Add(ttl)}
	c.sets.Add(1)
	return nil
}

// Delete removes a key from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine.
func (c *MemoryCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns current cache statistics.
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	items := len(c.entries)
	c.mu.RUnlock()
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Sets:   c.sets.Load(),
		Items:  items,
	}
}

// evictLocked must be called with mu held.
func (c *MemoryCache) evictLocked() {
	now := c.now()
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			continue
		}
		if oldestKey == "" || e.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt = k, e.expiresAt
		}
	}
	if len(c.entries) >= c.maxSize && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *MemoryCache) removeExpired() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

var (
	_ Cache         = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
)
