package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/shop-feed/app/api"
	"github.com/lysyi3m/shop-feed/app/catalog"
	"github.com/lysyi3m/shop-feed/app/cfg"
	"github.com/lysyi3m/shop-feed/app/database"
	"github.com/lysyi3m/shop-feed/app/feed"
	"github.com/lysyi3m/shop-feed/app/metrics"
	"github.com/lysyi3m/shop-feed/app/shop"
	"github.com/lysyi3m/shop-feed/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting Shop Feed server", "version", appCfg.Version)

	configCache := shop.NewConfigCache(appCfg.ShopsDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load shop configurations", "dir", appCfg.ShopsDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Shop configurations loaded", "count", configCache.GetConfigCount(), "dir", appCfg.ShopsDir)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	httpClient := &http.Client{Timeout: 2 * time.Minute}
	store := feed.NewStore()
	appMetrics := metrics.New()
	assetRepo := database.NewAssetRepository(db)

	deps := &tasks.BuildDeps{
		Source:    catalog.NewClient(httpClient, appCfg.UserAgent),
		Assets:    assetRepo,
		Store:     store,
		Generator: feed.NewGenerator(appCfg.Version),
		Tabular:   feed.NewTabularWriter(),
		Metrics:   appMetrics,
		NewHost:   tasks.CloudinaryHosts(httpClient),
		ProxyPath: appCfg.ProxyPath,
	}

	scheduler := tasks.NewScheduler(configCache, deps)
	scheduler.Start()

	handler := api.NewHandler(configCache, store, assetRepo, scheduler, appMetrics, appCfg.ProxyPath, appCfg.Version)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "proxy_path", appCfg.ProxyPath, "api_enabled", appCfg.APIAccessKey != "")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	scheduler.Stop()

	slog.Info("Shop Feed server shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
