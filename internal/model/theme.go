// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared across the application.
package model

import "time"

// Built-in theme names. These are always offered after any user-defined themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// BuiltinThemeNames lists the built-in themes in display order.
var BuiltinThemeNames = []string{ThemeLight, ThemeDark, ThemeAuto}

// IsBuiltinTheme reports whether name is one of the built-in theme names.
func IsBuiltinTheme(name string) bool {
	for _, n := range BuiltinThemeNames {
		if n == name {
			return true
		}
	}
	return false
}

// ThemeOption is a selectable theme as served by the theme list endpoint.
// ID is empty for built-in and filesystem themes.
type ThemeOption struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	ID    string `json:"id,omitempty"`
}

// HasID reports whether the option carries a server-assigned identifier.
func (o ThemeOption) HasID() bool {
	return o.ID != ""
}

// StoredTheme is a user-defined theme persisted in the database.
type StoredTheme struct {
	ID        string
	Name      string
	Title     string
	CreatedAt time.Time
}

// Option converts the stored theme to its selectable form.
func (t StoredTheme) Option() ThemeOption {
	return ThemeOption{Name: t.Name, Title: t.Title, ID: t.ID}
}
