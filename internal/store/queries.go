// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/olegiv/themepicker/internal/model"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// IsNotFound reports whether err means a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrNotFound)
}

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries wraps the application's SQL statements.
type Queries struct {
	db DBTX
}

// New creates Queries over db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const listThemes = `SELECT id, name, title, created_at FROM themes ORDER BY title, name`

// ListThemes returns all stored themes ordered by title.
func (q *Queries) ListThemes(ctx context.Context) ([]model.StoredTheme, error) {
	rows, err := q.db.QueryContext(ctx, listThemes)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.StoredTheme
	for rows.Next() {
		var t model.StoredTheme
		if err := rows.Scan(&t.ID, &t.Name, &t.Title, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const getTheme = `SELECT id, name, title, created_at FROM themes WHERE id = ?`

// GetTheme returns a stored theme by id.
func (q *Queries) GetTheme(ctx context.Context, id string) (model.StoredTheme, error) {
	var t model.StoredTheme
	err := q.db.QueryRowContext(ctx, getTheme, id).Scan(&t.ID, &t.Name, &t.Title, &t.CreatedAt)
	return t, err
}

const getThemeByName = `SELECT id, name, title, created_at FROM themes WHERE name = ?`

// GetThemeByName returns a stored theme by name.
func (q *Queries) GetThemeByName(ctx context.Context, name string) (model.StoredTheme, error) {
	var t model.StoredTheme
	err := q.db.QueryRowContext(ctx, getThemeByName, name).Scan(&t.ID, &t.Name, &t.Title, &t.CreatedAt)
	return t, err
}

const createTheme = `INSERT INTO themes (id, name, title, created_at) VALUES (?, ?, ?, ?)
RETURNING id, name, title, created_at`

// CreateThemeParams holds the columns of a new theme.
type CreateThemeParams struct {
	ID        string
	Name      string
	Title     string
	CreatedAt time.Time
}

// CreateTheme inserts a stored theme.
func (q *Queries) CreateTheme(ctx context.Context, arg CreateThemeParams) (model.StoredTheme, error) {
	var t model.StoredTheme
	err := q.db.QueryRowContext(ctx, createTheme, arg.ID, arg.Name, arg.Title, arg.CreatedAt).
		Scan(&t.ID, &t.Name, &t.Title, &t.CreatedAt)
	return t, err
}

const deleteTheme = `DELETE FROM themes WHERE id = ?`

// DeleteTheme removes a stored theme and reports how many rows were deleted.
func (q *Queries) DeleteTheme(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTheme, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getPreference = `SELECT owner, field, value, updated_at FROM user_preferences WHERE owner = ? AND field = ?`

// GetPreference returns the stored value of field for owner.
func (q *Queries) GetPreference(ctx context.Context, owner, field string) (model.Preference, error) {
	var p model.Preference
	err := q.db.QueryRowContext(ctx, getPreference, owner, field).
		Scan(&p.Owner, &p.Field, &p.Value, &p.UpdatedAt)
	return p, err
}

const upsertPreference = `INSERT INTO user_preferences (owner, field, value, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (owner, field) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// UpsertPreferenceParams holds a preference write. An invalid Value stores NULL.
type UpsertPreferenceParams struct {
	Owner     string
	Field     string
	Value     sql.NullString
	UpdatedAt time.Time
}

// UpsertPreference inserts or replaces a preference value.
func (q *Queries) UpsertPreference(ctx context.Context, arg UpsertPreferenceParams) error {
	_, err := q.db.ExecContext(ctx, upsertPreference, arg.Owner, arg.Field, arg.Value, arg.UpdatedAt)
	return err
}

const clearPreferenceValues = `UPDATE user_preferences SET value = NULL, updated_at = ? WHERE field = ? AND value = ?`

// ClearPreferenceValues nulls every value of field equal to value, e.g. when
// the theme it points to is deleted.
func (q *Queries) ClearPreferenceValues(ctx context.Context, field, value string, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, clearPreferenceValues, now, field, value)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const createEvent = `INSERT INTO events (level, category, message, metadata, created_at) VALUES (?, ?, ?, ?, ?)`

// CreateEventParams holds an event log entry.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent appends to the event log.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createEvent, arg.Level, arg.Category, arg.Message, arg.Metadata, arg.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listEvents = `SELECT id, level, category, message, metadata, created_at FROM events ORDER BY id DESC LIMIT ?`

// ListEvents returns the most recent events first.
func (q *Queries) ListEvents(ctx context.Context, limit int) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx, listEvents, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const deleteEventsBefore = `DELETE FROM events WHERE created_at < ?`

// DeleteEventsBefore prunes events older than cutoff.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteEventsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
