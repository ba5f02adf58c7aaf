// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// SecurityHeadersConfig holds configuration for security headers.
type SecurityHeadersConfig struct {
	// IsDevelopment disables HSTS, since development runs over plain HTTP.
	IsDevelopment bool

	// ContentSecurityPolicy is the CSP header value. Empty disables it.
	ContentSecurityPolicy string

	// HSTSMaxAge is the Strict-Transport-Security max-age in seconds. 0 disables it.
	HSTSMaxAge int

	// FrameOptions is "DENY", "SAMEORIGIN", or empty to omit the header.
	FrameOptions string

	ReferrerPolicy string

	// ExcludePaths are path prefixes served without these headers.
	ExcludePaths []string
}

// DefaultSecurityHeadersConfig returns headers for the preferences pages.
// Pages load only same-origin stylesheets and post only to themselves.
func DefaultSecurityHeadersConfig(isDev bool) SecurityHeadersConfig {
	return SecurityHeadersConfig{
		IsDevelopment: isDev,
		ContentSecurityPolicy: buildCSP([][2]string{
			{"default-src", "'self'"},
			{"script-src", "'none'"},
			{"style-src", "'self'"},
			{"img-src", "'self' data:"},
			{"object-src", "'none'"},
			{"base-uri", "'self'"},
			{"form-action", "'self'"},
			{"frame-ancestors", "'none'"},
		}),
		HSTSMaxAge:     31536000, // 1 year
		FrameOptions:   "DENY",
		ReferrerPolicy: "strict-origin-when-cross-origin",
	}
}

// buildCSP joins directives in the given order.
func buildCSP(directives [][2]string) string {
	parts := make([]string, 0, len(directives))
	for _, d := range directives {
		parts = append(parts, d[0]+" "+d[1])
	}
	return strings.Join(parts, "; ")
}

// SecurityHeaders returns a middleware that adds security headers to responses.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	var hsts string
	if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(cfg.HSTSMaxAge) + "; includeSubDomains"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range cfg.ExcludePaths {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			h := w.Header()
			if cfg.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if hsts != "" {
				h.Set("Strict-Transport-Security", hsts)
			}
			if cfg.FrameOptions != "" {
				h.Set("X-Frame-Options", cfg.FrameOptions)
			}
			h.Set("X-Content-Type-Options", "nosniff")
			if cfg.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			}

			next.ServeHTTP(w, r)
		})
	}
}
