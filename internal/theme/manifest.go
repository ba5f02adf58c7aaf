// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package theme discovers filesystem themes and exposes them as theme options.
package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest file names, in lookup order.
const (
	ManifestJSON = "theme.json"
	ManifestYAML = "theme.yaml"
	ManifestYML  = "theme.yml"
)

// ErrNoManifest is returned when a theme directory has no manifest file.
var ErrNoManifest = errors.New("theme manifest not found")

// Manifest describes a theme directory.
type Manifest struct {
	Name         string                 `json:"name" yaml:"name"`
	Title        string                 `json:"title" yaml:"title"`
	Version      string                 `json:"version" yaml:"version"`
	Author       string                 `json:"author" yaml:"author"`
	Description  string                 `json:"description" yaml:"description"`
	Translations map[string]Translation `json:"translations,omitempty" yaml:"translations,omitempty"`
}

// Translation holds localized manifest fields.
type Translation struct {
	Title string `json:"title" yaml:"title"`
}

// LocalizedTitle returns the title for lang, falling back to Title and then Name.
func (m Manifest) LocalizedTitle(lang string) string {
	if tr, ok := m.Translations[lang]; ok && tr.Title != "" {
		return tr.Title
	}
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

// LoadManifest reads the manifest from dir. theme.json wins over YAML.
func LoadManifest(dir string) (Manifest, string, error) {
	var m Manifest

	for _, name := range []string{ManifestJSON, ManifestYAML, ManifestYML} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return m, path, fmt.Errorf("reading %s: %w", name, err)
		}

		if name == ManifestJSON {
			err = json.Unmarshal(data, &m)
		} else {
			err = yaml.Unmarshal(data, &m)
		}
		if err != nil {
			return m, path, fmt.Errorf("parsing %s: %w", name, err)
		}
		return m, path, nil
	}

	return m, "", ErrNoManifest
}
