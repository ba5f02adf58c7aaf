// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/olegiv/themepicker/internal/cache"
	"github.com/olegiv/themepicker/internal/testutil"
	"github.com/olegiv/themepicker/internal/theme"
)

func newTestHealthHandler(t *testing.T, info cache.Info) *HealthHandler {
	t.Helper()
	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mc.Close() })
	catalog := theme.NewCatalog(filepath.Join(t.TempDir(), "themes"), testutil.DiscardLogger())
	return NewHealthHandler(testutil.TestDB(t), catalog, mc, info)
}

func decodeHealth(t *testing.T, w *httptest.ResponseRecorder) HealthStatus {
	t.Helper()
	var status HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return status
}

func TestHealthHandler_Health(t *testing.T) {
	h := newTestHealthHandler(t, cache.Info{Backend: cache.BackendMemory})

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	status := decodeHealth(t, w)
	if status.Status != StatusHealthy {
		t.Errorf("Status = %q, want healthy", status.Status)
	}
	for _, name := range []string{"database", "cache", "themes"} {
		if _, ok := status.Checks[name]; !ok {
			t.Errorf("missing %s check", name)
		}
	}
	if status.System != nil {
		t.Error("system info should only be included when verbose")
	}
}

func TestHealthHandler_HealthVerbose(t *testing.T) {
	h := newTestHealthHandler(t, cache.Info{Backend: cache.BackendMemory})

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil))

	status := decodeHealth(t, w)
	if status.System == nil || status.System.GoVersion == "" {
		t.Errorf("System = %+v, want populated", status.System)
	}
}

func TestHealthHandler_CacheFallbackDegrades(t *testing.T) {
	h := newTestHealthHandler(t, cache.Info{Backend: cache.BackendMemory, IsFallback: true})

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if status := decodeHealth(t, w); status.Status != StatusDegraded {
		t.Errorf("Status = %q, want degraded", status.Status)
	}
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	h := newTestHealthHandler(t, cache.Info{Backend: cache.BackendMemory})
	_ = h.db.Close()

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Health status = %d, want 503", w.Code)
	}

	w = httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Readiness status = %d, want 503", w.Code)
	}
}

func TestHealthHandler_LivenessAndReadiness(t *testing.T) {
	h := newTestHealthHandler(t, cache.Info{Backend: cache.BackendMemory})

	w := httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if w.Code != http.StatusOK || w.Body.String() != "{\"status\":\"alive\"}\n" {
		t.Errorf("Liveness = %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Readiness status = %d, want 200", w.Code)
	}
}
