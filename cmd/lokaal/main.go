// Package main is the entry point for the Lokaal server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lokaal/internal/cache"
	"lokaal/internal/config"
	"lokaal/internal/database"
	"lokaal/internal/handlers"
	"lokaal/internal/indexnow"
	"lokaal/internal/newsletter"
	"lokaal/internal/router"
	"lokaal/internal/seo"
	"lokaal/internal/session"
	"lokaal/internal/social"
	"lokaal/internal/storage"
	"lokaal/internal/store"
)

func main() {
	// Structured logger — outputs text with debug level; production log
	// collection handles filtering.
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
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Create the admin user if the users table is empty.
	if err := database.Seed(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (sessions + response cache).
	valkeyClient, err := cache.Connect(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session cookies are Secure outside development.
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	responseCache := cache.NewResponseCache(valkeyClient, cache.DefaultResponseTTL)

	// Data stores.
	locationStore := store.NewLocationStore(db)
	categoryStore := store.NewCategoryStore(db)
	tickerStore := store.NewTickerStore(db)
	tipStore := store.NewTipStore(db)
	userStore := store.NewUserStore(db)

	// S3-compatible object storage (optional — app works without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize s3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured — image uploads disabled")
	}

	// Third-party clients. Each is nil when its key is absent.
	indexNowClient := indexnow.New(cfg.IndexNowKey, cfg.CanonicalURL)
	newsletterClient := newsletter.New(cfg.BrevoAPIKey)
	socialUpdater := social.NewUpdater(locationStore, cfg.ApifyToken)

	// SEO pipeline: meta resolver + shell injector + crawler endpoints.
	production := !cfg.IsDev()
	resolver := seo.NewResolver(locationStore, tipStore, cfg.SiteName)
	injector := seo.NewInjector(resolver, cfg.CanonicalURL, production)

	shell, err := handlers.NewShell()
	if err != nil {
		slog.Error("failed to load application shell", "error", err)
		os.Exit(1)
	}

	// Handler groups.
	r := router.New(router.Deps{
		Sessions:   sessionStore,
		Locations:  handlers.NewLocations(locationStore, responseCache, indexNowClient),
		Categories: handlers.NewCategories(categoryStore),
		Ticker:     handlers.NewTicker(tickerStore, responseCache),
		Tips:       handlers.NewTips(tipStore, locationStore),
		Auth:       handlers.NewAuth(sessionStore, userStore),
		Objects:    handlers.NewObjects(storageClient, locationStore),
		Newsletter: handlers.NewNewsletter(newsletterClient),
		Social:     handlers.NewSocial(socialUpdater),
		Injector:   injector,
		Sitemap:    seo.SitemapHandler(locationStore, cfg.CanonicalURL),
		Robots:     seo.RobotsHandler(cfg.SiteName, cfg.CanonicalURL),
		IndexNow:   indexNowClient,
		Shell:      shell,
	})

	// Optional in-process social-trend refresh loop. Skipped when the
	// interval is zero or the Apify token is missing; an external
	// scheduler can hit the admin endpoint instead.
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SocialRefreshInterval > 0 && cfg.ApifyToken != "" {
		slog.Info("social refresh loop enabled", "interval", cfg.SocialRefreshInterval.String())
		go socialUpdater.RunPeriodic(rootCtx, cfg.SocialRefreshInterval)
	}

	// HTTP server with sensible timeouts. WriteTimeout accommodates the
	// synchronous admin social refresh, which waits a second per location.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second,
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
	<-rootCtx.Done()
	slog.Info("shutdown signal received")

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
