// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures scs sessions and the anonymous owner key that
// preferences are stored under.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

// Session keys.
const (
	KeyOwner = "owner"
	KeyFlash = "flash"
)

// CookieName is the session cookie name.
const CookieName = "themepicker_session"

// New creates a new session manager configured with SQLite store.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 30 * 24 * time.Hour
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Persist = true
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}

// Owner returns the session's owner key, assigning a new UUID on first use.
// ctx must carry a session loaded by sm.LoadAndSave.
func Owner(ctx context.Context, sm *scs.SessionManager) string {
	if owner := sm.GetString(ctx, KeyOwner); owner != "" {
		return owner
	}
	owner := uuid.NewString()
	sm.Put(ctx, KeyOwner, owner)
	return owner
}

// SetFlash stores a one-shot message for the next page render.
func SetFlash(ctx context.Context, sm *scs.SessionManager, msg string) {
	sm.Put(ctx, KeyFlash, msg)
}

// PopFlash returns and clears the flash message.
func PopFlash(ctx context.Context, sm *scs.SessionManager) string {
	return sm.PopString(ctx, KeyFlash)
}
