package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amitbasuri/smartbin/db"
	"github.com/amitbasuri/smartbin/internal/api"
	"github.com/amitbasuri/smartbin/internal/config"
	"github.com/amitbasuri/smartbin/internal/pipeline"
	"github.com/amitbasuri/smartbin/internal/stats"
	"github.com/amitbasuri/smartbin/internal/storage/postgres"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
)

func main() {
	// Load the dotenv if exists
	_ = godotenv.Load()

	var env config.Server
	err := envconfig.Process("", &env)
	if err != nil {
		log.Fatal("Cannot load env:", err)
	}

	// Setup structured logging
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))

	slog.Info("Starting Smart Bin API Server")

	// Run database migrations
	d, err := iofs.New(db.Migrations, "migrations")
	if err != nil {
		log.Fatal("Failed to load migrations:", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, env.Database.ToMigrationUri())
	if err != nil {
		log.Fatal("Failed to create migrate instance:", err)
	}

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal("Failed to run migrations:", err)
		}
	}
	slog.Info("Migrations ran successfully")

	// Initialize database connection pool
	dbPool, err := pgxpool.New(context.Background(), env.Database.ToDbConnectionUri())
	if err != nil {
		log.Fatal("Failed to create database pool:", err)
	}
	defer dbPool.Close()

	// Test database connection
	if err := dbPool.Ping(context.Background()); err != nil {
		log.Fatal("Failed to ping database:", err)
	}
	slog.Info("Database connection established")

	// Initialize storage layer
	store := postgres.NewStore(dbPool)

	// Capture -> detect -> analyze pipeline
	if err := os.MkdirAll(env.Pipeline.StorageDir, 0o755); err != nil {
		log.Fatal("Failed to create storage dir:", err)
	}
	processor := pipeline.NewProcessor(
		pipeline.NewHTTPCamera(env.Pipeline.CameraSnapshotURL, env.Pipeline.StorageDir, nil),
		pipeline.NewVisionDetector(env.Pipeline.VisionEndpoint, env.Pipeline.VisionAPIKey, env.Pipeline.VisionMaxLabels, nil),
		pipeline.NewLlamaAnalyzer(env.Pipeline.LLMEndpoint, env.Pipeline.LLMMaxTokens, nil),
		store,
		pipeline.Config{
			AnalysisTimeout: env.Pipeline.AnalysisTimeoutDuration(),
			MaxRetries:      env.Pipeline.MaxRetries,
		},
	)

	statsService := stats.NewService(store, stats.Config{
		CacheTTL:     time.Duration(env.StatsCacheTTL) * time.Second,
		CacheSize:    env.StatsCacheSize,
		CommonLimit:  env.StatsCommonLimit,
		RecentLimit:  env.StatsRecentLimit,
		QueryTimeout: time.Duration(env.StatsQueryTimeout) * time.Second,
	})

	// Initialize API handler
	apiHandler := api.NewHandler(store, processor, statsService, api.Config{
		StreamInterval:      time.Duration(env.StatsStreamInterval) * time.Second,
		ToggleRatePerSecond: env.ToggleRatePerSecond,
		ToggleBurst:         env.ToggleBurst,
	})

	// Setup HTTP routes; requests are logged by the api middleware
	r := gin.New()
	r.Use(gin.Recovery())

	// Register API routes
	if err := apiHandler.RegisterRoutes(r); err != nil {
		log.Fatal("Failed to register routes:", err)
	}

	// Health check endpoints
	r.GET("/readiness", func(c *gin.Context) {
		// Check database connection
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/liveness", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
	})

	srv := &http.Server{
		Addr:    ":" + env.ServerPort,
		Handler: r,
	}

	// Start HTTP server in goroutine
	go func() {
		slog.Info("HTTP server listening", "port", env.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error:", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down API server...")

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	slog.Info("API server exited gracefully")
}
