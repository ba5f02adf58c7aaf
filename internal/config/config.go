// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Supported database drivers.
const (
	DBDriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DBDriverCGO     = "sqlite3" // github.com/mattn/go-sqlite3
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"THEMEPICKER_DB_PATH" envDefault:"./data/themepicker.db"`
	DBDriver      string `env:"THEMEPICKER_DB_DRIVER" envDefault:"sqlite"`
	SessionSecret string `env:"THEMEPICKER_SESSION_SECRET,required"`
	ServerHost    string `env:"THEMEPICKER_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"THEMEPICKER_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"THEMEPICKER_ENV" envDefault:"development"`
	LogLevel      string `env:"THEMEPICKER_LOG_LEVEL" envDefault:"info"`
	CustomDir     string `env:"THEMEPICKER_CUSTOM_DIR" envDefault:"./custom"`

	// Base URL the theme field fetches ws/app/themes from. Empty means this server.
	ThemesBaseURL string `env:"THEMEPICKER_THEMES_BASE_URL"`

	// Cron spec for rescanning filesystem themes. Empty disables rescans.
	ThemeRescan string `env:"THEMEPICKER_THEME_RESCAN" envDefault:"@every 5m"`

	// Cache configuration
	RedisURL     string `env:"THEMEPICKER_REDIS_URL"`                                // Optional Redis URL for distributed caching
	CachePrefix  string `env:"THEMEPICKER_CACHE_PREFIX" envDefault:"themepicker:"`   // Redis key prefix
	CacheTTL     int    `env:"THEMEPICKER_CACHE_TTL" envDefault:"300"`               // Theme list TTL in seconds
	CacheMaxSize int    `env:"THEMEPICKER_CACHE_MAX_SIZE" envDefault:"1000"`         // Max memory cache entries

	// Rate limit for the theme list endpoint, per client IP
	ThemesRateLimit float64 `env:"THEMEPICKER_THEMES_RATE_LIMIT" envDefault:"10"`
	ThemesRateBurst int     `env:"THEMEPICKER_THEMES_RATE_BURST" envDefault:"20"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// ThemesSourceURL returns the base URL of the theme list endpoint.
func (c Config) ThemesSourceURL() string {
	if c.ThemesBaseURL != "" {
		return c.ThemesBaseURL
	}
	return "http://" + c.ServerAddr() + "/"
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheDuration returns the cache TTL as a duration.
func (c Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("THEMEPICKER_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, errors.New("THEMEPICKER_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	switch cfg.DBDriver {
	case DBDriverModernc, DBDriverCGO:
	default:
		return nil, fmt.Errorf("THEMEPICKER_DB_DRIVER must be %q or %q, got %q",
			DBDriverModernc, DBDriverCGO, cfg.DBDriver)
	}

	if cfg.ThemesRateLimit <= 0 || cfg.ThemesRateBurst <= 0 {
		return nil, errors.New("THEMEPICKER_THEMES_RATE_LIMIT and THEMEPICKER_THEMES_RATE_BURST must be positive")
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("THEMEPICKER_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	classes := []string{
		"abcdefghijklmnopqrstuvwxyz",
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		"0123456789",
		"!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\",
	}
	n := 0
	for _, class := range classes {
		if strings.ContainsAny(s, class) {
			n++
		}
	}
	return n >= 3
}
