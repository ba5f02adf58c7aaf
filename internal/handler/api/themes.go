// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/themepicker/internal/middleware"
	"github.com/olegiv/themepicker/internal/service"
	"github.com/olegiv/themepicker/internal/store"
)

// ThemeList handles GET /ws/app/themes. The body is a bare JSON array of
// {name, title, id?}; built-in themes are not included.
func (h *Handler) ThemeList(w http.ResponseWriter, r *http.Request) {
	opts, err := h.themes.List(r.Context(), middleware.GetLanguage(r))
	if err != nil {
		h.logger.Error("failed to list themes", "error", err)
		WriteInternalError(w, "Failed to list themes")
		return
	}
	WriteJSON(w, http.StatusOK, opts)
}

// ListThemes handles GET /api/v1/themes.
func (h *Handler) ListThemes(w http.ResponseWriter, r *http.Request) {
	opts, err := h.themes.List(r.Context(), middleware.GetLanguage(r))
	if err != nil {
		h.logger.Error("failed to list themes", "error", err)
		WriteInternalError(w, "Failed to list themes")
		return
	}
	WriteSuccess(w, opts, &Meta{Total: int64(len(opts))})
}

// CreateTheme handles POST /api/v1/themes.
func (h *Handler) CreateTheme(w http.ResponseWriter, r *http.Request) {
	var in service.CreateThemeInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	created, err := h.themes.Create(r.Context(), in)
	switch {
	case err == nil:
		WriteCreated(w, created.Option())
	case errors.Is(err, service.ErrEmptyTitle):
		WriteValidationError(w, map[string]string{"title": err.Error()})
	case errors.Is(err, service.ErrInvalidName), errors.Is(err, service.ErrBuiltinName):
		WriteValidationError(w, map[string]string{"name": err.Error()})
	case errors.Is(err, service.ErrDuplicateName):
		WriteConflict(w, err.Error())
	default:
		h.logger.Error("failed to create theme", "error", err)
		WriteInternalError(w, "Failed to create theme")
	}
}

// DeleteTheme handles DELETE /api/v1/themes/{id}.
func (h *Handler) DeleteTheme(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.themes.Delete(r.Context(), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, store.ErrNotFound):
		WriteNotFound(w, "Theme not found")
	default:
		h.logger.Error("failed to delete theme", "id", id, "error", err)
		WriteInternalError(w, "Failed to delete theme")
	}
}
