// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the per-IP limiter map before it is reset.
const maxTrackedClients = 10000

// limiterCache is a generic rate limiter cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// get returns the rate limiter for a specific key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// clearIfExceeds clears all entries if the cache exceeds maxSize.
func (lc *limiterCache[K]) clearIfExceeds(maxSize int) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if len(lc.limiters) > maxSize {
		lc.limiters = make(map[K]*rate.Limiter)
		return true
	}
	return false
}

func (lc *limiterCache[K]) size() int {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return len(lc.limiters)
}

// RateLimiter limits requests per client IP.
type RateLimiter struct {
	cache          *limiterCache[string]
	exemptLoopback bool
}

// NewRateLimiter creates a limiter allowing rps requests per second per IP
// with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		cache: newLimiterCache[string](rps, burst),
	}
}

// ExemptLoopback disables limiting for loopback peers, such as this
// server's own theme field fetching the theme list. The peer is the address
// recorded by PeerAddr; without it no request is exempt, since RemoteAddr may
// already carry a forwarded client address.
func (rl *RateLimiter) ExemptLoopback() *RateLimiter {
	rl.exemptLoopback = true
	return rl
}

// Middleware rejects requests over the limit with a JSON 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.cache.clearIfExceeds(maxTrackedClients) {
			slog.Debug("rate limiter state reset", "max_clients", maxTrackedClients)
		}

		if rl.exemptLoopback && isLoopback(peerIP(r)) {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		if !rl.cache.get(ip).Allow() {
			slog.Debug("rate limit exceeded", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			WriteAPIError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Rate limit exceeded. Please slow down.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isLoopback(ip string) bool {
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.IsLoopback()
}
