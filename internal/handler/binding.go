// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/themepicker/internal/store"
)

// preferenceBinding binds a theme field to one owner's stored preference.
// The value is read once when the binding is created.
type preferenceBinding struct {
	ctx     context.Context
	queries *store.Queries
	owner   string
	field   string

	value *string
}

func newPreferenceBinding(ctx context.Context, q *store.Queries, owner, field string) (*preferenceBinding, error) {
	b := &preferenceBinding{ctx: ctx, queries: q, owner: owner, field: field}

	p, err := q.GetPreference(ctx, owner, field)
	switch {
	case err == nil:
		b.value = p.Ptr()
	case !store.IsNotFound(err):
		return nil, fmt.Errorf("loading preference %s: %w", field, err)
	}
	return b, nil
}

func (b *preferenceBinding) Value() *string {
	return b.value
}

// SetValue stores v. Every write from the field is a user change, so the
// flag is not persisted.
func (b *preferenceBinding) SetValue(v *string, _ bool) error {
	var ns sql.NullString
	if v != nil {
		ns = sql.NullString{String: *v, Valid: true}
	}

	err := b.queries.UpsertPreference(b.ctx, store.UpsertPreferenceParams{
		Owner:     b.owner,
		Field:     b.field,
		Value:     ns,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("saving preference %s: %w", b.field, err)
	}

	b.value = v
	return nil
}
