// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the byte cache used for the theme list, backed by
// process memory or Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Cache is implemented by all backends. Implementations are goroutine-safe.
type Cache interface {
	// Get returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value; a zero ttl uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// Stats holds hit/miss counters.
type Stats struct {
	Hits   int64
	Misses int64
	Sets   int64
	Items  int
}

// HitRate returns hits as a percentage of lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// StatsProvider is implemented by backends that keep counters.
type StatsProvider interface {
	Stats() Stats
}

// Error represents an error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found in cache or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)

// GetJSON decodes a cached JSON value into a T.
func GetJSON[T any](ctx context.Context, c Cache, key string) (T, error) {
	var v T
	data, err := c.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decoding cached %s: %w", key, err)
	}
	return v, nil
}

// SetJSON stores v as JSON.
func SetJSON[T any](ctx context.Context, c Cache, key string, v T, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}

// IsMiss reports whether err is a cache miss.
func IsMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}
