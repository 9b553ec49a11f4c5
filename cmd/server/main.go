package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eldtechnologies/journeyboard/clients/go/journey"
	"github.com/eldtechnologies/journeyboard/internal/api"
	"github.com/eldtechnologies/journeyboard/internal/config"
	"github.com/eldtechnologies/journeyboard/internal/handlers"
	"github.com/eldtechnologies/journeyboard/internal/metrics"
	"github.com/eldtechnologies/journeyboard/internal/query"
	"github.com/eldtechnologies/journeyboard/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	// Journey backend client
	client := journey.NewClient(cfg.JourneyAPIURL)
	client.Observe = metrics.ObserveUpstream

	// Initialize Redis store; the query cache falls back to memory without it
	var (
		redisStore  *store.RedisStore
		redisClient *redis.Client
		cache       query.Cache = query.NewMemoryCache()
	)
	if cfg.RedisURL != "" {
		var err error
		redisStore, err = store.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisStore.Close()
		redisClient = redisStore.Client()
		cache = redisStore
		logger.Info().Msg("connected to Redis")
	}

	// Initialize snapshot store: PostgreSQL when configured, SQLite otherwise
	var snapshots store.SnapshotStore
	if cfg.DatabaseURL != "" {
		pgStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		snapshots = pgStore
		logger.Info().Msg("connected to PostgreSQL")
	} else {
		sqliteStore, err := store.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite open failed")
		}
		snapshots = sqliteStore
		logger.Info().Msg("using SQLite snapshots")
	}
	defer snapshots.Close()

	journeys := query.NewJourneys(client, cache, snapshots, query.Options{
		StaleTime: cfg.JourneyStaleTime,
		Retry:     cfg.JourneyRetry,
		Timeout:   query.DefaultTimeout,
	}, logger)
	agents := query.NewAgents(client, cache, query.Options{
		StaleTime: cfg.AgentsStaleTime,
		Retry:     query.AgentsRetry,
		Timeout:   query.DefaultTimeout,
	}, logger)

	h := handlers.NewHandler(handlers.Deps{
		Backend:   client,
		Journeys:  journeys,
		Agents:    agents,
		Snapshots: snapshots,
		Redis:     redisStore,
		MemberID:  cfg.MemberID,
		Logger:    logger,
	})

	// Create router
	router := api.NewRouter(logger, h, redisClient, api.RouterConfig{
		RateLimitWhitelist: cfg.RateLimitWhitelist,
		AutoBlock:          cfg.AutoBlockEnabled,
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		// Leaves room to write the error page after a load times out
		WriteTimeout: query.DefaultTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("backend", client.BaseURL).
			Msg("starting journeyboard server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
