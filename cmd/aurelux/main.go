// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Aurelux content server.
// It loads configuration, opens the content store, wires media storage,
// the content cache and admin sessions, and serves HTTP with graceful
// shutdown.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aurelux/internal/auth"
	"aurelux/internal/backend"
	"aurelux/internal/cache"
	"aurelux/internal/config"
	"aurelux/internal/handlers"
	"aurelux/internal/middleware"
	"aurelux/internal/render"
	"aurelux/internal/router"
)

func main() {
	if err := config.LoadDotEnv(".env.local", ".env"); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"content_store", cfg.ContentStore,
		"media_driver", cfg.MediaDriver,
	)

	ctx := context.Background()

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open content store", "error", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		slog.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	// Seed a development admin (no-op if any admin exists).
	if cfg.IsDev() {
		if err := store.SeedAdmin(ctx); err != nil {
			slog.Error("failed to seed admin", "error", err)
			os.Exit(1)
		}
	}

	secret := cfg.SessionSecret
	if secret == "" {
		slog.Warn("ADMIN_SESSION_SECRET not set, using the development secret")
		secret = auth.DevSecret
	}
	secureCookies := !cfg.IsDev()
	sessions := auth.NewSessions(secret, cfg.SessionMaxAge, secureCookies)

	manager, local, err := backend.Media(cfg, secret)
	if err != nil {
		slog.Error("failed to initialize media storage", "error", err)
		os.Exit(1)
	}

	// Valkey content cache is optional; a nil cache reads through.
	var contentCache *cache.ContentCache
	if cfg.CacheEnabled() {
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		contentCache = cache.NewContentCache(client, cache.DefaultPrefix, cfg.ContentCacheTTL)
		slog.Info("content cache enabled", "ttl", cfg.ContentCacheTTL)
	} else {
		slog.Warn("VALKEY_HOST not set, content cache disabled")
	}

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize page renderer", "error", err)
		os.Exit(1)
	}

	repo := store.Repository(manager)

	// Five failed sign-ins per account and twenty per client IP every
	// fifteen minutes.
	loginThrottle := middleware.NewLoginThrottle(5, 20, 15*time.Minute)
	defer loginThrottle.Stop()

	r := router.New(router.Deps{
		Sessions:      sessions,
		Public:        handlers.NewPublic(repo, renderer, contentCache),
		Auth:          handlers.NewAuth(auth.NewAuthenticator(store.Admins), sessions),
		Admin:         handlers.NewAdmin(repo, manager, contentCache),
		LoginThrottle: loginThrottle,
		UploadsDir:    local.UploadsDir(),
	})

	// Uploads stream up to 25 MiB, so reads and writes get minutes.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
