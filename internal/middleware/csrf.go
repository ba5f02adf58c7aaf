// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"filippo.io/csrf/gorilla"
)

// CSRFConfig holds configuration for CSRF protection.
// filippo.io/csrf/gorilla checks Fetch metadata headers instead of cookies.
type CSRFConfig struct {
	// AuthKey is a 32-byte key; the session secret is used.
	AuthKey []byte

	// ErrorHandler is called when CSRF validation fails.
	ErrorHandler http.Handler

	// TrustedOrigins are host:port values allowed to post cross-origin.
	TrustedOrigins []string
}

// DefaultCSRFConfig returns a CSRFConfig for the server listening on addr.
// In development the server's own address and its localhost aliases are trusted.
func DefaultCSRFConfig(authKey []byte, isDev bool, addr string) CSRFConfig {
	cfg := CSRFConfig{
		AuthKey: authKey,
	}

	if isDev {
		port := addr[strings.LastIndex(addr, ":")+1:]
		cfg.TrustedOrigins = []string{
			"localhost:" + port,
			"127.0.0.1:" + port,
		}
	}

	return cfg
}

// CSRF returns a middleware that provides CSRF protection.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	var opts []csrf.Option

	if cfg.ErrorHandler != nil {
		opts = append(opts, csrf.ErrorHandler(cfg.ErrorHandler))
	} else {
		opts = append(opts, csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)))
	}

	if len(cfg.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.TrustedOrigins))
	}

	return csrf.Protect(cfg.AuthKey, opts...)
}

// csrfErrorHandler handles CSRF validation failures.
func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	slog.Warn("CSRF validation failed",
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
		"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
	)

	if strings.HasPrefix(r.URL.Path, "/api/") {
		WriteAPIError(w, http.StatusForbidden, "csrf_failed", "CSRF validation failed")
		return
	}
	http.Error(w, "Forbidden - CSRF validation failed", http.StatusForbidden)
}
