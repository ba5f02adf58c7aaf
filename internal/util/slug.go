// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides theme name slugs and title sanitising.
package util

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	// slugRegex matches non-alphanumeric characters (except hyphens)
	slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// MaxSlugLength bounds generated theme names.
const MaxSlugLength = 64

// Slugify converts a title into a theme name: transliterated to ASCII,
// lowercased, with runs of other characters collapsed into single hyphens.
func Slugify(s string) string {
	result := strings.ToLower(unidecode.Unidecode(s))
	result = strings.ReplaceAll(result, " ", "-")
	result = slugRegex.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxSlugLength {
		result = strings.TrimRight(result[:MaxSlugLength], "-")
	}
	return result
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" || len(s) > MaxSlugLength {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	return !strings.Contains(s, "--")
}
