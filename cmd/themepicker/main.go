// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/themepicker/internal/cache"
	"github.com/olegiv/themepicker/internal/config"
	"github.com/olegiv/themepicker/internal/handler"
	"github.com/olegiv/themepicker/internal/handler/api"
	"github.com/olegiv/themepicker/internal/i18n"
	"github.com/olegiv/themepicker/internal/logging"
	"github.com/olegiv/themepicker/internal/middleware"
	"github.com/olegiv/themepicker/internal/render"
	"github.com/olegiv/themepicker/internal/scheduler"
	"github.com/olegiv/themepicker/internal/service"
	"github.com/olegiv/themepicker/internal/session"
	"github.com/olegiv/themepicker/internal/store"
	"github.com/olegiv/themepicker/internal/theme"
	"github.com/olegiv/themepicker/internal/themeselect"
	"github.com/olegiv/themepicker/internal/version"
	"github.com/olegiv/themepicker/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// eventRetention is how long event log entries are kept.
const eventRetention = 30 * 24 * time.Hour

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "themepicker - theme preference picker\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  THEMEPICKER_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  THEMEPICKER_DB_PATH           SQLite database path (default: ./data/themepicker.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  THEMEPICKER_DB_DRIVER         sqlite (pure Go) or sqlite3 (cgo) (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  THEMEPICKER_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  THEMEPICKER_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  THEMEPICKER_CUSTOM_DIR        Directory holding themes/ (default: ./custom)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  THEMEPICKER_THEMES_BASE_URL   Where the theme field fetches ws/app/themes (default: this server)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  THEMEPICKER_REDIS_URL         Redis URL for the theme list cache (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println(version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime})
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath, "driver", cfg.DBDriver)
	dbCfg := store.DefaultDBConfig()
	dbCfg.Driver = cfg.DBDriver
	db, err := store.NewDBWithConfig(cfg.DBPath, dbCfg)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	themeCache, cacheInfo, err := cache.New(cache.Config{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       cfg.CacheDuration(),
		MaxSize:          cfg.CacheMaxSize,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = themeCache.Close() }()

	switch {
	case cacheInfo.IsFallback:
		slog.Warn("using memory cache (redis fallback)", "redis_url_configured", cfg.UseRedisCache())
	default:
		slog.Info("cache initialized", "backend", cacheInfo.Backend)
	}

	events := service.NewEventService(db, logger)
	catalog := theme.NewCatalog(filepath.Join(cfg.CustomDir, "themes"), logger)
	themes := service.NewThemeService(service.ThemeServiceConfig{
		DB:       db,
		Catalog:  catalog,
		Cache:    themeCache,
		CacheTTL: cfg.CacheDuration(),
		Events:   events,
		Logger:   logger,
	})
	catalog.OnReload(func() { themes.Invalidate(context.Background()) })
	if err := catalog.Load(); err != nil {
		return fmt.Errorf("loading themes: %w", err)
	}
	slog.Info("filesystem themes loaded", "count", catalog.Len())

	sched := scheduler.New(logger, time.Minute)
	if err := sched.Add(scheduler.Job{
		Name:     "theme-rescan",
		Schedule: cfg.ThemeRescan,
		Run:      func(context.Context) error { return catalog.Load() },
	}); err != nil {
		return err
	}
	if err := sched.Add(scheduler.Job{
		Name:     "event-prune",
		Schedule: "@daily",
		Run: func(ctx context.Context) error {
			n, err := events.DeleteOldEvents(ctx, eventRetention)
			if err == nil && n > 0 {
				slog.Info("pruned event log", "deleted", n)
			}
			return err
		},
	}); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	sessionManager := session.New(db, cfg.IsDevelopment())

	renderer, err := render.New(render.Config{
		TemplatesFS:    web.Templates(),
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	source, err := themeselect.NewHTTPSource(cfg.ThemesSourceURL(), nil)
	if err != nil {
		return fmt.Errorf("configuring theme source: %w", err)
	}
	slog.Info("theme field source", "endpoint", source.Endpoint())

	securityCfg := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	securityCfg.ExcludePaths = []string{"/health"}

	router := newRouter(routes{
		sessions:    sessionManager,
		csrf:        middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr())),
		security:    middleware.SecurityHeaders(securityCfg),
		rateLimiter: middleware.NewRateLimiter(cfg.ThemesRateLimit, cfg.ThemesRateBurst).ExemptLoopback(),
		api:         api.NewHandler(themes, logger),
		preferences: handler.NewPreferencesHandler(handler.PreferencesConfig{
			DB:       db,
			Sessions: sessionManager,
			Renderer: renderer,
			Source:   source,
			Events:   events,
			Logger:   logger,
		}),
		health: handler.NewHealthHandler(db, catalog, themeCache, cacheInfo),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
