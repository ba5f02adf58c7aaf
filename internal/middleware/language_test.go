// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLanguage(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		cookie     string
		accept     string
		want       string
		wantCookie bool
	}{
		{name: "default", want: "en"},
		{name: "query", query: "ru", want: "ru", wantCookie: true},
		{name: "query uppercase", query: "RU", want: "ru", wantCookie: true},
		{name: "unsupported query falls through", query: "xx", accept: "ru-RU", want: "ru"},
		{name: "cookie", cookie: "ru", accept: "en", want: "ru"},
		{name: "invalid cookie falls through", cookie: "zz", accept: "ru", want: "ru"},
		{name: "accept-language", accept: "ru-RU,ru;q=0.9,en;q=0.8", want: "ru"},
		{name: "unsupported accept-language", accept: "ja", want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := Language(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetLanguage(r)
			}))

			target := "/preferences"
			if tt.query != "" {
				target += "?lang=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LanguageCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if got != tt.want {
				t.Errorf("language = %q, want %q", got, tt.want)
			}
			hasCookie := len(w.Result().Cookies()) > 0
			if hasCookie != tt.wantCookie {
				t.Errorf("cookie set = %v, want %v", hasCookie, tt.wantCookie)
			}
		})
	}
}

func TestGetLanguageWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetLanguage(req); got != "en" {
		t.Errorf("GetLanguage = %q, want en", got)
	}
}
