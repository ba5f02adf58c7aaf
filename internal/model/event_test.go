// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

// Stored events are filtered by these values, so they must not drift.
func TestEventConstants(t *testing.T) {
	tests := map[string]string{
		EventLevelInfo:          "info",
		EventLevelWarning:       "warning",
		EventLevelError:         "error",
		EventCategoryTheme:      "theme",
		EventCategoryPreference: "preference",
		EventCategoryConfig:     "config",
		EventCategoryCache:      "cache",
		EventCategorySystem:     "system",
	}

	for got, want := range tests {
		if got != want {
			t.Errorf("constant = %q, want %q", got, want)
		}
	}
}

func TestEventCategoriesUnique(t *testing.T) {
	categories := []string{
		EventCategoryTheme,
		EventCategoryPreference,
		EventCategoryConfig,
		EventCategoryCache,
		EventCategorySystem,
	}

	seen := make(map[string]bool)
	for _, cat := range categories {
		if seen[cat] {
			t.Errorf("duplicate category: %q", cat)
		}
		seen[cat] = true
	}
}
