// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	handler := rl.Middleware(okHandler())

	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/ws/app/themes", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	for i := range 2 {
		if code := do("192.0.2.1:1000"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, code)
		}
	}
	if code := do("192.0.2.1:1001"); code != http.StatusTooManyRequests {
		t.Errorf("over limit: status = %d, want 429", code)
	}
	if code := do("192.0.2.2:1000"); code != http.StatusOK {
		t.Errorf("other client: status = %d, want 200", code)
	}
}

func TestLimiterCache(t *testing.T) {
	lc := newLimiterCache[string](1, 1)

	a := lc.get("a")
	if lc.get("a") != a {
		t.Error("get should return the same limiter for a key")
	}
	lc.get("b")

	if lc.clearIfExceeds(2) {
		t.Error("cache of 2 should not be cleared at max 2")
	}
	if !lc.clearIfExceeds(1) {
		t.Error("cache of 2 should be cleared at max 1")
	}
	if lc.size() != 0 {
		t.Errorf("size after clear = %d", lc.size())
	}
}

func TestRateLimiter_ExemptLoopback(t *testing.T) {
	limited := NewRateLimiter(0.001, 1).ExemptLoopback().Middleware(okHandler())
	// Same chain order as the server: the peer is captured before RealIP.
	handler := PeerAddr(chimw.RealIP(limited))

	do := func(remote, realIP string) int {
		req := httptest.NewRequest(http.MethodGet, "/ws/app/themes", nil)
		req.RemoteAddr = remote
		if realIP != "" {
			req.Header.Set("X-Real-IP", realIP)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	for i := range 3 {
		if code := do("127.0.0.1:5000", ""); code != http.StatusOK {
			t.Fatalf("loopback request %d: status = %d", i, code)
		}
	}

	if code := do("203.0.113.7:5555", "127.0.0.1"); code != http.StatusOK {
		t.Fatalf("first spoofed request: status = %d, want 200", code)
	}
	for i := range 5 {
		if code := do("203.0.113.7:5555", "127.0.0.1"); code != http.StatusTooManyRequests {
			t.Errorf("spoofed request %d: status = %d, want 429", i, code)
		}
	}
}

func TestRateLimiter_ExemptLoopbackNeedsPeerAddr(t *testing.T) {
	handler := NewRateLimiter(0.001, 1).ExemptLoopback().Middleware(okHandler())

	codes := make([]int, 2)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/ws/app/themes", nil)
		req.RemoteAddr = "127.0.0.1:5000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes[i] = w.Code
	}

	if codes[1] != http.StatusTooManyRequests {
		t.Errorf("second request without PeerAddr: status = %d, want 429", codes[1])
	}
}
