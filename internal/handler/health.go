// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/themepicker/internal/cache"
	"github.com/olegiv/themepicker/internal/theme"
)

// Check statuses.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	catalog   *theme.Catalog
	cache     cache.Cache
	cacheInfo cache.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler. catalog and c may be nil.
func NewHealthHandler(db *sql.DB, catalog *theme.Catalog, c cache.Cache, info cache.Info) *HealthHandler {
	return &HealthHandler{
		db:        db,
		catalog:   catalog,
		cache:     c,
		cacheInfo: info,
		startTime: time.Now(),
	}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Checks    map[string]Check `json:"checks"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
}

// Health handles GET /health. A database failure makes the service
// unavailable; a cache fallback only degrades it.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database": h.checkDatabase(r.Context()),
		"cache":    h.checkCache(),
		"themes":   h.checkThemes(),
	}

	status := StatusHealthy
	for _, c := range checks {
		if c.Status == StatusUnhealthy {
			status = StatusUnhealthy
			break
		}
		if c.Status == StatusDegraded {
			status = StatusDegraded
		}
	}

	resp := HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    checks,
	}
	if r.URL.Query().Get("verbose") == "true" {
		resp.System = systemInfo()
	}

	code := http.StatusOK
	if status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if c := h.checkDatabase(r.Context()); c.Status != StatusHealthy {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: StatusUnhealthy, Message: "database unreachable", Latency: latency.String()}
	}
	return Check{Status: StatusHealthy, Latency: latency.String()}
}

func (h *HealthHandler) checkCache() Check {
	if h.cache == nil {
		return Check{Status: StatusHealthy, Message: "disabled"}
	}

	msg := h.cacheInfo.Backend
	if sp, ok := h.cache.(cache.StatsProvider); ok {
		st := sp.Stats()
		msg = fmt.Sprintf("%s, %d items, %.1f%% hit rate", h.cacheInfo.Backend, st.Items, st.HitRate())
	}
	if h.cacheInfo.IsFallback {
		return Check{Status: StatusDegraded, Message: msg + " (fallback)"}
	}
	return Check{Status: StatusHealthy, Message: msg}
}

func (h *HealthHandler) checkThemes() Check {
	if h.catalog == nil {
		return Check{Status: StatusHealthy, Message: "no catalog"}
	}
	return Check{Status: StatusHealthy, Message: fmt.Sprintf("%d filesystem themes", h.catalog.Len())}
}

func systemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     fmt.Sprintf("%.1f MB", float64(m.Alloc)/1024/1024),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
