// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/olegiv/themepicker/internal/model"
	"github.com/olegiv/themepicker/internal/util"
)

// Theme is a discovered filesystem theme.
type Theme struct {
	Name     string   // option name
	Dir      string   // theme directory
	Manifest Manifest // parsed manifest
}

// Catalog holds the themes found under a themes directory.
type Catalog struct {
	themesDir string
	logger    *slog.Logger

	mu     sync.RWMutex
	themes map[string]*Theme

	onReload func()
}

// NewCatalog creates a catalog over themesDir. Call Load to populate it.
func NewCatalog(themesDir string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		themesDir: themesDir,
		logger:    logger,
		themes:    make(map[string]*Theme),
	}
}

// OnReload registers fn to run after every successful Load.
func (c *Catalog) OnReload(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onReload = fn
}

// Load rescans the themes directory and replaces the catalog contents.
// A missing directory leaves the catalog empty.
func (c *Catalog) Load() error {
	found, err := c.scan()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.themes = found
	hook := c.onReload
	c.mu.Unlock()

	c.logger.Debug("themes scanned", "dir", c.themesDir, "count", len(found))

	if hook != nil {
		hook()
	}
	return nil
}

func (c *Catalog) scan() (map[string]*Theme, error) {
	found := make(map[string]*Theme)

	entries, err := os.ReadDir(c.themesDir)
	if errors.Is(err, os.ErrNotExist) {
		c.logger.Debug("themes directory does not exist", "path", c.themesDir)
		return found, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading themes directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(c.themesDir, entry.Name())

		m, _, err := LoadManifest(dir)
		if errors.Is(err, ErrNoManifest) {
			continue
		}
		if err != nil {
			c.logger.Warn("failed to load theme", "theme", entry.Name(), "error", err)
			continue
		}

		name := m.Name
		if name == "" {
			name = entry.Name()
		}
		if !util.IsValidSlug(name) {
			c.logger.Warn("skipping theme with invalid name", "theme", entry.Name(), "name", name)
			continue
		}
		if model.IsBuiltinTheme(name) {
			c.logger.Warn("skipping theme that shadows a built-in", "theme", entry.Name(), "name", name)
			continue
		}
		if _, dup := found[name]; dup {
			c.logger.Warn("skipping duplicate theme name", "theme", entry.Name(), "name", name)
			continue
		}

		m.Name = name
		found[name] = &Theme{Name: name, Dir: dir, Manifest: m}
	}

	return found, nil
}

// Get returns a theme by name.
func (c *Catalog) Get(name string) (*Theme, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.themes[name]
	return t, ok
}

// Len returns the number of discovered themes.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.themes)
}

// Options returns the discovered themes as options with titles for lang,
// sorted by title and then name. Filesystem themes carry no id.
func (c *Catalog) Options(lang string) []model.ThemeOption {
	c.mu.RLock()
	opts := make([]model.ThemeOption, 0, len(c.themes))
	for _, t := range c.themes {
		opts = append(opts, model.ThemeOption{
			Name:  t.Name,
			Title: t.Manifest.LocalizedTitle(lang),
		})
	}
	c.mu.RUnlock()

	sort.Slice(opts, func(i, j int) bool {
		if opts[i].Title != opts[j].Title {
			return opts[i].Title < opts[j].Title
		}
		return opts[i].Name < opts[j].Name
	})
	return opts
}
