package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amitbasuri/smartbin/internal/config"
	"github.com/amitbasuri/smartbin/internal/pipeline"
	"github.com/amitbasuri/smartbin/internal/storage/postgres"
	"github.com/amitbasuri/smartbin/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func main() {
	// Load the dotenv if exists
	_ = godotenv.Load()

	var env config.Worker
	err := envconfig.Process("", &env)
	if err != nil {
		log.Fatal("Cannot load env:", err)
	}

	// Setup structured logging
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))

	slog.Info("Starting Smart Bin Analysis Worker")

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

	// Only the analysis stage is re-run; capture and detection happened when the lid opened
	processor := pipeline.NewProcessor(
		nil,
		nil,
		pipeline.NewLlamaAnalyzer(env.Pipeline.LLMEndpoint, env.Pipeline.LLMMaxTokens, nil),
		store,
		pipeline.Config{
			AnalysisTimeout: env.Pipeline.AnalysisTimeoutDuration(),
			MaxRetries:      env.Pipeline.MaxRetries,
		},
	)

	// Start worker
	workerConfig := worker.Config{
		PollInterval:   time.Duration(env.PollInterval) * time.Second,
		MaxConcurrency: env.Concurrency,
	}
	w := worker.NewWorker(store, processor, workerConfig)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w.Start(ctx)
	slog.Info("Worker stopped gracefully")
}
