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

	"github.com/AsunaPahlo/armada-web/internal/auth"
	"github.com/AsunaPahlo/armada-web/internal/estimator"
	"github.com/AsunaPahlo/armada-web/internal/fleet"
	"github.com/AsunaPahlo/armada-web/internal/gamedata"
	"github.com/AsunaPahlo/armada-web/internal/hub"
	"github.com/AsunaPahlo/armada-web/internal/middleware"
	"github.com/AsunaPahlo/armada-web/internal/server"
	"github.com/AsunaPahlo/armada-web/internal/shared/config"
	"github.com/AsunaPahlo/armada-web/internal/shared/database"
	"github.com/AsunaPahlo/armada-web/internal/shared/logger"
	"github.com/AsunaPahlo/armada-web/internal/shared/redis"
	"github.com/AsunaPahlo/armada-web/internal/telemetry"
	"github.com/AsunaPahlo/armada-web/internal/voyage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Init(); err != nil {
		return err
	}
	logger.Init()

	slog.Info("Starting armada-web server",
		"environment", config.GlobalConfig.Server.Environment,
		"port", config.GlobalConfig.Server.Port,
	)

	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return err
	}

	cache, err := redis.Connect()
	if err != nil {
		slog.Warn("Redis unavailable, continuing without cache", "error", err)
		cache = nil
	}
	defer cache.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Game data and estimator.
	gamedataRepo := gamedata.NewRepository(db)
	tables, err := gamedataRepo.LoadTables(ctx)
	if err != nil {
		return err
	}
	knownRoutes, err := gamedataRepo.LoadRouteNames(ctx)
	if err != nil {
		slog.Warn("Failed to load route stats, treating all routes as leveling", "error", err)
		knownRoutes = nil
	}
	est := estimator.New(tables)

	// Fleet state.
	fleetRepo := fleet.NewRepository(db, slog.Default())
	store := fleet.NewStore(fleetRepo)
	if err := store.LoadPersisted(ctx); err != nil {
		slog.Warn("Failed to restore persisted snapshots", "error", err)
	}
	fcSettings, err := fleetRepo.LoadFCSettings(ctx)
	if err != nil {
		slog.Warn("Failed to load FC settings", "error", err)
		fcSettings = nil
	}
	aggregator := fleet.NewAggregator(store, est, knownRoutes, fcSettings)

	// Services.
	authService := auth.NewService(auth.NewRepository(db), slog.Default())
	voyageService := voyage.NewService(voyage.NewRepository(db, slog.Default()), slog.Default())

	// Realtime layer.
	viewerHub := hub.NewHub()
	broadcaster := hub.NewBroadcaster(viewerHub, aggregator, cache, config.GlobalConfig.Fleet.BroadcastInterval)
	registry := telemetry.NewRegistry(cache)

	go func() {
		if err := viewerHub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Viewer hub stopped unexpectedly", "error", err)
		}
	}()
	go func() {
		if err := broadcaster.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Broadcaster stopped unexpectedly", "error", err)
		}
	}()

	routes := server.NewRoutes(db, cache, store, fleetRepo, aggregator, authService, voyageService, viewerHub, broadcaster, registry, slog.Default())
	mux := routes.Setup()

	rateLimiter := middleware.NewRateLimiterFromConfig()
	corsMiddleware := middleware.NewCORS()
	handler := corsMiddleware.Middleware(rateLimiter.Middleware(mux))

	httpServer := &http.Server{
		Addr:         ":" + config.GlobalConfig.Server.Port,
		Handler:      handler,
		ReadTimeout:  config.GlobalConfig.Server.ReadTimeout,
		WriteTimeout: config.GlobalConfig.Server.WriteTimeout,
		IdleTimeout:  config.GlobalConfig.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
