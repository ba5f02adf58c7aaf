// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for CSRF protection, rate
// limiting, and request language detection.
package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
)

// ContextKey is the type for request context keys set by this package.
type ContextKey string

// ContextKeyPeerAddr holds the connection's RemoteAddr as seen before any
// proxy header rewriting.
const ContextKeyPeerAddr ContextKey = "peer_addr"

// APIError represents a JSON error response for the API.
type APIError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	apiErr := APIError{}
	apiErr.Error.Code = code
	apiErr.Error.Message = message

	_ = json.NewEncoder(w).Encode(apiErr)
}

// clientIP returns the request's remote host. chi's RealIP middleware is
// expected to have rewritten RemoteAddr from proxy headers already.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// PeerAddr records the transport-level RemoteAddr in the request context.
// It must run before chi's RealIP, which trusts client-supplied headers.
func PeerAddr(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyPeerAddr, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// peerIP returns the host recorded by PeerAddr, or "" when PeerAddr did not run.
func peerIP(r *http.Request) string {
	addr, ok := r.Context().Value(ContextKeyPeerAddr).(string)
	if !ok {
		return ""
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
