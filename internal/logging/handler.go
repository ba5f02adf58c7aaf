// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors warnings and errors
// into the database-backed event log.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/olegiv/themepicker/internal/model"
	"github.com/olegiv/themepicker/internal/store"
)

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// records at or above its level to the events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
	attrs   []slog.Attr
}

// NewEventLogHandler creates a handler that records WARN and above.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a handler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeEvent(r)
	}
	return nil
}

// WithAttrs implements slog.Handler. Attributes are kept so they reach the
// event metadata too.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &EventLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
		attrs:   merged,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
		attrs:   h.attrs,
	}
}

// writeEvent uses a background context so the event survives a cancelled request.
func (h *EventLogHandler) writeEvent(r slog.Record) {
	attrs := make(map[string]string, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.String()
		return true
	})

	category := attrs["category"]
	delete(attrs, "category")
	if category == "" {
		category = inferCategory(r.Message)
	}

	metadata, err := json.Marshal(attrs)
	if err != nil {
		metadata = []byte("{}")
	}

	_, _ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     levelToEventLevel(r.Level),
		Category:  category,
		Message:   r.Message,
		Metadata:  string(metadata),
		CreatedAt: r.Time,
	})
}

func levelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// inferCategory guesses a category from the message when none was given.
func inferCategory(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "preference"):
		return model.EventCategoryPreference
	case strings.Contains(msg, "theme"):
		return model.EventCategoryTheme
	case strings.Contains(msg, "cache"):
		return model.EventCategoryCache
	case strings.Contains(msg, "config") || strings.Contains(msg, "setting"):
		return model.EventCategoryConfig
	default:
		return model.EventCategorySystem
	}
}
