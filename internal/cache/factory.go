// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"log/slog"
	"time"
)

// Backend names reported by Info.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when set.
	RedisURL         string
	Prefix           string
	DefaultTTL       time.Duration
	MaxSize          int
	CleanupInterval  time.Duration
	FallbackToMemory bool
}

// Info describes the backend that New selected.
type Info struct {
	Backend    string
	IsFallback bool
}

// New creates a Redis cache when RedisURL is set, otherwise a memory cache.
// If Redis is unreachable and FallbackToMemory is set, a memory cache is
// returned with Info.IsFallback set.
func New(cfg Config, logger *slog.Logger) (Cache, Info, error) {
	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(RedisCacheOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
		if err == nil {
			return rc, Info{Backend: BackendRedis}, nil
		}
		if !cfg.FallbackToMemory {
			return nil, Info{}, fmt.Errorf("connecting to redis: %w", err)
		}
		if logger != nil {
			logger.Warn("redis cache unavailable, falling back to memory", "error", err)
		}
		return newMemory(cfg), Info{Backend: BackendMemory, IsFallback: true}, nil
	}
	return newMemory(cfg), Info{Backend: BackendMemory}, nil
}

func newMemory(cfg Config) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}
