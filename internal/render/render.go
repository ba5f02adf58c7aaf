// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render executes the page templates inside the base layout.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/themepicker/internal/i18n"
	"github.com/olegiv/themepicker/internal/session"
)

// BaseLayout is the layout every page is parsed with.
const BaseLayout = "layouts/base.html"

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses each pages/*.html together with the base layout.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	pages, err := fs.Glob(templatesFS, "pages/*.html")
	if err != nil {
		return fmt.Errorf("listing pages: %w", err)
	}

	for _, p := range pages {
		name := strings.TrimSuffix(path.Base(p), ".html")

		tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, BaseLayout, p)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"T": i18n.T,
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Lang        string
	Data        any
	Flash       string
	CurrentYear int
}

// Has reports whether a page template is loaded.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render renders a page with the given data and status.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	if data.Lang == "" {
		data.Lang = i18n.DefaultLanguage()
	}
	if r.sessionManager != nil && data.Flash == "" {
		data.Flash = session.PopFlash(req.Context(), r.sessionManager)
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}
