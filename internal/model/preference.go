// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// PreferenceTheme is the preference field holding the selected theme.
const PreferenceTheme = "theme"

// Preference is a single persisted form-field value for an owner.
// A NULL value means the field was explicitly cleared.
type Preference struct {
	Owner     string
	Field     string
	Value     sql.NullString
	UpdatedAt time.Time
}

// Ptr returns the value as a string pointer, nil for NULL.
func (p Preference) Ptr() *string {
	if !p.Value.Valid {
		return nil
	}
	v := p.Value.String
	return &v
}
