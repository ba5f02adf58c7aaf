// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/olegiv/themepicker/internal/model"
)

// testDB creates a migrated database in a temporary directory.
func testDB(t *testing.T, driver string) *sql.DB {
	t.Helper()

	cfg := DefaultDBConfig()
	cfg.Driver = driver
	db, err := NewDBWithConfig(filepath.Join(t.TempDir(), "test.db"), cfg)
	if err != nil {
		if driver == DriverCGO {
			t.Skipf("cgo driver unavailable: %v", err)
		}
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testDB(t, DriverModernc)
	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestThemes_CRUD(t *testing.T) {
	for _, driver := range []string{DriverModernc, DriverCGO} {
		t.Run(driver, func(t *testing.T) {
			q := New(testDB(t, driver))
			ctx := context.Background()
			now := time.Now().UTC().Truncate(time.Second)

			for _, p := range []CreateThemeParams{
				{ID: "id-2", Name: "ocean", Title: "Ocean", CreatedAt: now},
				{ID: "id-1", Name: "forest", Title: "Forest", CreatedAt: now},
			} {
				if _, err := q.CreateTheme(ctx, p); err != nil {
					t.Fatalf("CreateTheme(%s): %v", p.Name, err)
				}
			}

			themes, err := q.ListThemes(ctx)
			if err != nil {
				t.Fatalf("ListThemes: %v", err)
			}
			if len(themes) != 2 || themes[0].Name != "forest" || themes[1].Name != "ocean" {
				t.Fatalf("ListThemes = %+v, want forest then ocean", themes)
			}

			got, err := q.GetThemeByName(ctx, "ocean")
			if err != nil {
				t.Fatalf("GetThemeByName: %v", err)
			}
			if got.ID != "id-2" || got.Title != "Ocean" {
				t.Errorf("GetThemeByName = %+v", got)
			}

			if _, err := q.CreateTheme(ctx, CreateThemeParams{ID: "id-3", Name: "ocean", Title: "Dup", CreatedAt: now}); err == nil {
				t.Error("expected unique constraint violation for duplicate name")
			}

			n, err := q.DeleteTheme(ctx, "id-2")
			if err != nil || n != 1 {
				t.Fatalf("DeleteTheme = %d, %v", n, err)
			}
			if _, err := q.GetTheme(ctx, "id-2"); !errors.Is(err, sql.ErrNoRows) {
				t.Errorf("GetTheme after delete err = %v, want sql.ErrNoRows", err)
			}
			if n, _ := q.DeleteTheme(ctx, "id-2"); n != 0 {
				t.Errorf("second DeleteTheme affected %d rows", n)
			}
		})
	}
}

func TestPreferences_Upsert(t *testing.T) {
	q := New(testDB(t, DriverModernc))
	ctx := context.Background()

	if _, err := q.GetPreference(ctx, "owner-1", model.PreferenceTheme); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("GetPreference on empty table err = %v", err)
	}

	write := func(v sql.NullString) {
		t.Helper()
		err := q.UpsertPreference(ctx, UpsertPreferenceParams{
			Owner: "owner-1", Field: model.PreferenceTheme, Value: v, UpdatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("UpsertPreference: %v", err)
		}
	}

	write(sql.NullString{String: "dark", Valid: true})
	p, err := q.GetPreference(ctx, "owner-1", model.PreferenceTheme)
	if err != nil {
		t.Fatalf("GetPreference: %v", err)
	}
	if v := p.Ptr(); v == nil || *v != "dark" {
		t.Errorf("value = %v, want dark", v)
	}

	write(sql.NullString{})
	p, err = q.GetPreference(ctx, "owner-1", model.PreferenceTheme)
	if err != nil {
		t.Fatalf("GetPreference: %v", err)
	}
	if p.Ptr() != nil {
		t.Errorf("value = %q, want NULL", *p.Ptr())
	}
}

func TestClearPreferenceValues(t *testing.T) {
	q := New(testDB(t, DriverModernc))
	ctx := context.Background()

	for _, owner := range []string{"a", "b"} {
		if err := q.UpsertPreference(ctx, UpsertPreferenceParams{
			Owner: owner, Field: model.PreferenceTheme,
			Value: sql.NullString{String: "id-9", Valid: true}, UpdatedAt: time.Now(),
		}); err != nil {
			t.Fatalf("UpsertPreference: %v", err)
		}
	}

	n, err := q.ClearPreferenceValues(ctx, model.PreferenceTheme, "id-9", time.Now())
	if err != nil {
		t.Fatalf("ClearPreferenceValues: %v", err)
	}
	if n != 2 {
		t.Errorf("cleared %d rows, want 2", n)
	}
}

func TestEvents(t *testing.T) {
	q := New(testDB(t, DriverModernc))
	ctx := context.Background()

	for _, msg := range []string{"first", "second"} {
		if _, err := q.CreateEvent(ctx, CreateEventParams{
			Level: model.EventLevelWarning, Category: model.EventCategoryTheme,
			Message: msg, Metadata: "{}", CreatedAt: time.Now(),
		}); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	events, err := q.ListEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 || events[0].Message != "second" {
		t.Errorf("ListEvents = %+v, want newest first", events)
	}
}

func TestDeleteEventsBefore(t *testing.T) {
	q := New(testDB(t, DriverModernc))
	ctx := context.Background()
	now := time.Now()

	for _, at := range []time.Time{now.Add(-48 * time.Hour), now} {
		if _, err := q.CreateEvent(ctx, CreateEventParams{
			Level: model.EventLevelWarning, Category: model.EventCategorySystem,
			Message: "event", Metadata: "{}", CreatedAt: at,
		}); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	n, err := q.DeleteEventsBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d events, want 1", n)
	}
}

func TestIsNotFound(t *testing.T) {
	q := New(testDB(t, DriverModernc))

	_, err := q.GetTheme(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Errorf("GetTheme(missing) err = %v, want not found", err)
	}
	if IsNotFound(errors.New("other")) {
		t.Error("IsNotFound(other) = true")
	}
}
