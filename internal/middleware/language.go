// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/olegiv/themepicker/internal/i18n"
)

// ContextKeyLanguage holds the request's language code.
const ContextKeyLanguage ContextKey = "language"

// LanguageCookieName is the cookie name for language preference.
const LanguageCookieName = "themepicker_lang"

// Language detects the request language and stores it in the context.
// Priority order:
//  1. Query parameter ?lang=XX (also updates the cookie)
//  2. Language cookie
//  3. Accept-Language header
//  4. Default language
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.DefaultLanguage()

		if q := strings.ToLower(r.URL.Query().Get("lang")); q != "" && i18n.IsSupported(q) {
			SetLanguageCookie(w, q)
			lang = q
		} else if c, err := r.Cookie(LanguageCookieName); err == nil && i18n.IsSupported(c.Value) {
			lang = strings.ToLower(c.Value)
		} else if accept := r.Header.Get("Accept-Language"); accept != "" {
			lang = i18n.MatchLanguage(accept)
		}

		ctx := context.WithValue(r.Context(), ContextKeyLanguage, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetLanguage returns the request language, or the default language when the
// Language middleware did not run.
func GetLanguage(r *http.Request) string {
	if lang, ok := r.Context().Value(ContextKeyLanguage).(string); ok && lang != "" {
		return lang
	}
	return i18n.DefaultLanguage()
}

// SetLanguageCookie sets the language preference cookie.
func SetLanguageCookie(w http.ResponseWriter, langCode string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    langCode,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60, // 1 year
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
