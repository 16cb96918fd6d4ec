// Package main is the entry point for the VibePress admin API server.
// It loads configuration, opens the database, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msnandhis/vibepress-sub000/internal/config"
	"github.com/msnandhis/vibepress-sub000/internal/database"
	"github.com/msnandhis/vibepress-sub000/internal/handlers"
	"github.com/msnandhis/vibepress-sub000/internal/kvstore"
	"github.com/msnandhis/vibepress-sub000/internal/router"
	"github.com/msnandhis/vibepress-sub000/internal/store"
)

func main() {
	// Structured logger — text output; level tightens outside development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"driver", cfg.Driver,
		"addr", cfg.Addr(),
	)

	// Open the database and run pending migrations.
	db, err := database.Connect(cfg.Driver, cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Driver); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	kv := kvstore.New(db)

	// Seed system roles and the default admin (no-op once users exist).
	if cfg.IsDev() {
		if err := database.Seed(context.Background(), kv); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Valkey is optional — without it the settings blob cache is a no-op.
	var blobCache *kvstore.BlobCache
	if cfg.ValkeyHost != "" {
		valkeyClient, err := kvstore.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		blobCache = kvstore.NewBlobCache(valkeyClient, kvstore.DefaultCacheTTL)
	} else {
		slog.Warn("valkey not configured — settings cache disabled")
	}

	// Initialize data stores.
	posts := store.NewPostStore(kv)
	pages := store.NewPageStore(kv)
	media := store.NewMediaStore(kv)
	folders := store.NewMediaFolderStore(kv)
	cats := store.NewCategoryStore(kv)
	tags := store.NewTagStore(kv)
	users := store.NewUserStore(kv)
	roles := store.NewRoleStore(kv)
	sessions := store.NewSessionStore(kv)
	invites := store.NewInviteStore(kv)
	settings := store.NewSiteSettingStore(kv, blobCache)

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(posts, pages, media, folders, cats, tags, users, roles, sessions, invites, settings)
	authHandlers := handlers.NewAuth(users, sessions, invites)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessions, adminHandlers, authHandlers)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
