// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the theme list and audit logic behind the HTTP handlers.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/olegiv/themepicker/internal/model"
	"github.com/olegiv/themepicker/internal/store"
)

// EventService records audit events in the events table.
type EventService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB, logger *slog.Logger) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{
		queries: store.New(db),
		logger:  logger,
	}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		Metadata:  metadataJSON,
		CreatedAt: time.Now(),
	})
	if err != nil {
		// Not routed through the logger's event handler to avoid recursion.
		s.logger.Debug("failed to log event", "error", err)
		return err
	}
	return nil
}

// LogThemeEvent logs an info-level theme event.
func (s *EventService) LogThemeEvent(ctx context.Context, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, model.EventCategoryTheme, message, metadata)
}

// LogPreferenceEvent logs an info-level preference event.
func (s *EventService) LogPreferenceEvent(ctx context.Context, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, model.EventCategoryPreference, message, metadata)
}

// Recent returns up to limit events, newest first.
func (s *EventService) Recent(ctx context.Context, limit int) ([]model.Event, error) {
	return s.queries.ListEvents(ctx, limit)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.queries.DeleteEventsBefore(ctx, time.Now().Add(-olderThan))
}
