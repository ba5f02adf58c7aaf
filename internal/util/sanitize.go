// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var titlePolicy = bluemonday.StrictPolicy()

// SanitizeTitle strips all markup from a display title and trims it.
// The result is plain text; entities produced by the policy are decoded.
func SanitizeTitle(s string) string {
	return strings.TrimSpace(html.UnescapeString(titlePolicy.Sanitize(s)))
}
