// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/themepicker/internal/handler"
	"github.com/olegiv/themepicker/internal/handler/api"
	"github.com/olegiv/themepicker/internal/middleware"
	"github.com/olegiv/themepicker/internal/themeselect"
	"github.com/olegiv/themepicker/web"
)

// routes holds everything the router mounts.
type routes struct {
	sessions    *scs.SessionManager
	csrf        func(http.Handler) http.Handler
	security    func(http.Handler) http.Handler
	rateLimiter *middleware.RateLimiter
	api         *api.Handler
	preferences *handler.PreferencesHandler
	health      *handler.HealthHandler
}

func newRouter(rt routes) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.PeerAddr)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(rt.security)

	r.Get("/health", rt.health.Health)
	r.Get("/health/live", rt.health.Liveness)
	r.Get("/health/ready", rt.health.Readiness)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Language)

		// The theme list stays sessionless: it is polled by every field mount.
		r.With(rt.rateLimiter.Middleware).Get("/"+themeselect.ThemesPath, rt.api.ThemeList)

		r.Route("/api/v1", func(r chi.Router) {
			r.Use(rt.csrf)
			r.Get("/status", rt.api.Status)
			r.With(rt.rateLimiter.Middleware).Get("/themes", rt.api.ListThemes)
			r.Post("/themes", rt.api.CreateTheme)
			r.Delete("/themes/{id}", rt.api.DeleteTheme)
		})

		r.Group(func(r chi.Router) {
			r.Use(rt.sessions.LoadAndSave)
			r.Use(rt.csrf)

			r.Get("/", func(w http.ResponseWriter, req *http.Request) {
				http.Redirect(w, req, handler.RoutePreferences, http.StatusFound)
			})
			r.Get(handler.RoutePreferences, rt.preferences.Show)
			r.Post(handler.RoutePreferences, rt.preferences.Update)
		})
	})

	return r
}
