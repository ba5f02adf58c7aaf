// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/themepicker/internal/cache"
	"github.com/olegiv/themepicker/internal/i18n"
	"github.com/olegiv/themepicker/internal/model"
	"github.com/olegiv/themepicker/internal/store"
	"github.com/olegiv/themepicker/internal/theme"
	"github.com/olegiv/themepicker/internal/util"
)

// ListCacheKey prefixes the cached theme list; the language code is appended.
const ListCacheKey = "themes:list"

// Validation errors returned by Create.
var (
	ErrEmptyTitle    = errors.New("title is required")
	ErrInvalidName   = errors.New("name must be a lowercase slug")
	ErrBuiltinName   = errors.New("name is reserved for a built-in theme")
	ErrDuplicateName = errors.New("a theme with this name already exists")
)

// CreateThemeInput is the user-supplied part of a new stored theme.
type CreateThemeInput struct {
	Title string `json:"title"`
	Name  string `json:"name,omitempty"`
}

// ThemeService serves the theme list and manages stored themes.
type ThemeService struct {
	db      *sql.DB
	queries *store.Queries
	catalog *theme.Catalog
	cache   cache.Cache
	ttl     time.Duration
	events  *EventService
	logger  *slog.Logger
}

// ThemeServiceConfig wires ThemeService collaborators. Catalog, Cache and
// Events are optional.
type ThemeServiceConfig struct {
	DB       *sql.DB
	Catalog  *theme.Catalog
	Cache    cache.Cache
	CacheTTL time.Duration
	Events   *EventService
	Logger   *slog.Logger
}

// NewThemeService creates a new ThemeService.
func NewThemeService(cfg ThemeServiceConfig) *ThemeService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ThemeService{
		db:      cfg.DB,
		queries: store.New(cfg.DB),
		catalog: cfg.Catalog,
		cache:   cfg.Cache,
		ttl:     cfg.CacheTTL,
		events:  cfg.Events,
		logger:  logger,
	}
}

func listKey(lang string) string {
	return ListCacheKey + ":" + lang
}

// List returns stored themes (with ids) followed by filesystem themes, each
// group sorted by title. Built-in themes are not included.
func (s *ThemeService) List(ctx context.Context, lang string) ([]model.ThemeOption, error) {
	if !i18n.IsSupported(lang) {
		lang = i18n.DefaultLanguage()
	}
	key := listKey(lang)

	if s.cache != nil {
		opts, err := cache.GetJSON[[]model.ThemeOption](ctx, s.cache, key)
		if err == nil {
			return opts, nil
		}
		if !cache.IsMiss(err) {
			s.logger.Warn("theme list cache read failed", "key", key, "error", err)
		}
	}

	stored, err := s.queries.ListThemes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing stored themes: %w", err)
	}

	opts := make([]model.ThemeOption, 0, len(stored))
	for _, t := range stored {
		opts = append(opts, t.Option())
	}
	if s.catalog != nil {
		opts = append(opts, s.catalog.Options(lang)...)
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, opts, s.ttl); err != nil {
			s.logger.Warn("theme list cache write failed", "key", key, "error", err)
		}
	}
	return opts, nil
}

// Create validates and stores a new theme. The name defaults to a slug of
// the title.
func (s *ThemeService) Create(ctx context.Context, in CreateThemeInput) (model.StoredTheme, error) {
	title := util.SanitizeTitle(in.Title)
	if title == "" {
		return model.StoredTheme{}, ErrEmptyTitle
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = util.Slugify(title)
	}
	if !util.IsValidSlug(name) {
		return model.StoredTheme{}, ErrInvalidName
	}
	if model.IsBuiltinTheme(name) {
		return model.StoredTheme{}, ErrBuiltinName
	}
	if s.catalog != nil {
		if _, ok := s.catalog.Get(name); ok {
			return model.StoredTheme{}, ErrDuplicateName
		}
	}

	_, err := s.queries.GetThemeByName(ctx, name)
	switch {
	case err == nil:
		return model.StoredTheme{}, ErrDuplicateName
	case !store.IsNotFound(err):
		return model.StoredTheme{}, fmt.Errorf("checking theme name: %w", err)
	}

	created, err := s.queries.CreateTheme(ctx, store.CreateThemeParams{
		ID:        uuid.NewString(),
		Name:      name,
		Title:     title,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return model.StoredTheme{}, fmt.Errorf("creating theme: %w", err)
	}

	s.Invalidate(ctx)
	s.audit(ctx, "theme created", map[string]any{"id": created.ID, "name": created.Name})
	return created, nil
}

// Delete removes a stored theme and clears preferences that point at its id.
// It returns store.ErrNotFound when no theme has that id.
func (s *ThemeService) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := s.queries.WithTx(tx)
	n, err := q.DeleteTheme(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting theme: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}

	cleared, err := q.ClearPreferenceValues(ctx, model.PreferenceTheme, id, time.Now())
	if err != nil {
		return fmt.Errorf("clearing preferences: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	s.Invalidate(ctx)
	s.audit(ctx, "theme deleted", map[string]any{"id": id, "cleared_preferences": cleared})
	return nil
}

// Invalidate drops the cached theme lists for every supported language.
func (s *ThemeService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, lang := range i18n.SupportedLanguages {
		if err := s.cache.Delete(ctx, listKey(lang)); err != nil {
			s.logger.Warn("theme list cache invalidation failed", "lang", lang, "error", err)
		}
	}
}

func (s *ThemeService) audit(ctx context.Context, message string, metadata map[string]any) {
	if s.events == nil {
		return
	}
	if err := s.events.LogThemeEvent(ctx, message, metadata); err != nil {
		s.logger.Warn("failed to record theme event", "message", message, "error", err)
	}
}
