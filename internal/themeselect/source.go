// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package themeselect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/olegiv/themepicker/internal/model"
)

// ThemesPath is the path of the theme list endpoint, relative to the
// application root.
const ThemesPath = "ws/app/themes"

// ErrThemesUnavailable is returned by a Source when the theme list could not
// be retrieved. The field treats it as an empty list.
var ErrThemesUnavailable = errors.New("theme list unavailable")

// Source provides the user-defined theme options.
type Source interface {
	Themes(ctx context.Context) ([]model.ThemeOption, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]model.ThemeOption, error)

// Themes implements Source.
func (f SourceFunc) Themes(ctx context.Context) ([]model.ThemeOption, error) {
	return f(ctx)
}

// StaticSource serves a fixed list.
type StaticSource []model.ThemeOption

// Themes implements Source.
func (s StaticSource) Themes(_ context.Context) ([]model.ThemeOption, error) {
	out := make([]model.ThemeOption, len(s))
	copy(out, s)
	return out, nil
}

// HTTPSource fetches the theme list from the theme list endpoint.
type HTTPSource struct {
	endpoint string
	client   *http.Client
	language string
}

// NewHTTPSource creates a source for the endpoint under baseURL.
// A nil client gets a client with a 10 second timeout.
func NewHTTPSource(baseURL string, client *http.Client) (*HTTPSource, error) {
	endpoint, err := url.JoinPath(baseURL, ThemesPath)
	if err != nil {
		return nil, fmt.Errorf("building themes URL: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{endpoint: endpoint, client: client}, nil
}

// WithLanguage returns a copy that sends lang as Accept-Language.
func (s *HTTPSource) WithLanguage(lang string) *HTTPSource {
	c := *s
	c.language = lang
	return &c
}

// Endpoint returns the full URL requested by Themes.
func (s *HTTPSource) Endpoint() string {
	return s.endpoint
}

// Themes implements Source. Any non-2xx response is ErrThemesUnavailable.
func (s *HTTPSource) Themes(ctx context.Context) ([]model.ThemeOption, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.language != "" {
		req.Header.Set("Accept-Language", s.language)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrThemesUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrThemesUnavailable, resp.StatusCode)
	}

	var themes []model.ThemeOption
	if err := json.NewDecoder(resp.Body).Decode(&themes); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrThemesUnavailable, err)
	}
	return themes, nil
}
