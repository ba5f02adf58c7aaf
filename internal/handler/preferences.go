// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTML page hosting the theme field, its
// preference binding, and the health endpoints.
package handler

import (
	"database/sql"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/themepicker/internal/i18n"
	"github.com/olegiv/themepicker/internal/middleware"
	"github.com/olegiv/themepicker/internal/model"
	"github.com/olegiv/themepicker/internal/render"
	"github.com/olegiv/themepicker/internal/service"
	"github.com/olegiv/themepicker/internal/session"
	"github.com/olegiv/themepicker/internal/store"
	"github.com/olegiv/themepicker/internal/themeselect"
)

// RoutePreferences is the preferences page path.
const RoutePreferences = "/preferences"

// PreferencesHandler serves the preferences page.
type PreferencesHandler struct {
	queries  *store.Queries
	sm       *scs.SessionManager
	renderer *render.Renderer
	source   *themeselect.HTTPSource
	events   *service.EventService
	logger   *slog.Logger
}

// PreferencesConfig wires a PreferencesHandler. Events is optional.
type PreferencesConfig struct {
	DB       *sql.DB
	Sessions *scs.SessionManager
	Renderer *render.Renderer
	Source   *themeselect.HTTPSource
	Events   *service.EventService
	Logger   *slog.Logger
}

// NewPreferencesHandler creates a new PreferencesHandler.
func NewPreferencesHandler(cfg PreferencesConfig) *PreferencesHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PreferencesHandler{
		queries:  store.New(cfg.DB),
		sm:       cfg.Sessions,
		renderer: cfg.Renderer,
		source:   cfg.Source,
		events:   cfg.Events,
		logger:   logger,
	}
}

// PreferencesPage is the template data of the preferences page.
type PreferencesPage struct {
	Field    template.HTML
	ReadOnly bool
	Action   string
	Error    string
}

// field builds the theme field for the request's owner and waits for its
// option fetch to finish.
func (h *PreferencesHandler) field(r *http.Request, lang string, readOnly bool) (*themeselect.Field, error) {
	owner := session.Owner(r.Context(), h.sm)

	binding, err := newPreferenceBinding(r.Context(), h.queries, owner, model.PreferenceTheme)
	if err != nil {
		return nil, err
	}

	f := themeselect.New(themeselect.Config{
		Schema: themeselect.Schema{
			Name:        model.PreferenceTheme,
			Title:       i18n.T(lang, "field.theme"),
			Placeholder: i18n.T(lang, "field.theme.placeholder"),
		},
		ReadOnly:  readOnly,
		Source:    h.source.WithLanguage(lang),
		Translate: i18n.Translator(lang),
		Binding:   binding,
		Logger:    h.logger,
	})
	if err := f.Load(r.Context()); err != nil {
		return nil, err
	}
	return f, nil
}

func isReadOnly(r *http.Request) bool {
	v := r.URL.Query().Get("readonly")
	return v == "1" || v == "true"
}

// Show handles GET /preferences.
func (h *PreferencesHandler) Show(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)

	f, err := h.field(r, lang, isReadOnly(r))
	if err != nil {
		h.serverError(w, "failed to build theme field", err)
		return
	}
	h.renderPage(w, r, http.StatusOK, lang, f, "")
}

// Update handles POST /preferences. A missing or empty theme value clears
// the preference.
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	readOnly := isReadOnly(r)
	f, err := h.field(r, lang, readOnly)
	if err != nil {
		h.serverError(w, "failed to build theme field", err)
		return
	}

	var key *string
	if vals, ok := r.PostForm[model.PreferenceTheme]; ok && len(vals) > 0 {
		key = &vals[0]
	}

	err = f.Select(key)
	switch {
	case err == nil:
	case errors.Is(err, themeselect.ErrReadOnly):
		h.renderPage(w, r, http.StatusForbidden, lang, f, i18n.T(lang, "preferences.readonly"))
		return
	case errors.Is(err, themeselect.ErrUnknownOption):
		h.renderPage(w, r, http.StatusUnprocessableEntity, lang, f, i18n.T(lang, "preferences.unknown_theme", *key))
		return
	default:
		h.serverError(w, "failed to save theme preference", err)
		return
	}

	if h.events != nil {
		saved := "null"
		if v := f.Selected(); v != nil {
			saved = themeselect.OptionKey(*v)
		}
		if err := h.events.LogPreferenceEvent(r.Context(), "theme preference saved", map[string]any{"value": saved}); err != nil {
			h.logger.Warn("failed to record preference event", "error", err)
		}
	}

	session.SetFlash(r.Context(), h.sm, i18n.T(lang, "preferences.saved"))
	http.Redirect(w, r, r.URL.RequestURI(), http.StatusSeeOther)
}

func (h *PreferencesHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, lang string, f *themeselect.Field, errMsg string) {
	fieldHTML, err := f.HTML()
	if err != nil {
		h.serverError(w, "failed to render theme field", err)
		return
	}

	err = h.renderer.Render(w, r, status, "preferences", render.TemplateData{
		Title: i18n.T(lang, "preferences.title"),
		Lang:  lang,
		Data: PreferencesPage{
			Field:    fieldHTML,
			ReadOnly: f.ReadOnly(),
			Action:   r.URL.RequestURI(),
			Error:    errMsg,
		},
	})
	if err != nil {
		h.serverError(w, "failed to render preferences page", err)
	}
}

func (h *PreferencesHandler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
