package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/geo-lookup-proxy/internal/config"
	"github.com/geo-lookup-proxy/internal/pkg/logger"
	redisRepo "github.com/geo-lookup-proxy/internal/repository/redis"
	"github.com/geo-lookup-proxy/internal/worker"
	"github.com/geo-lookup-proxy/internal/worker/stats"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}
	if !cfg.Redis.Enabled {
		fmt.Println("Worker requires Redis. Set REDIS_ENABLED=true.")
		os.Exit(1)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Lookup Stats Worker",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.String("consumer_name", cfg.Worker.ConsumerName),
		zap.Int("batch_size", cfg.Worker.BatchSize))

	// 3. Connect to Redis
	redisClient, err := redisRepo.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Repositories
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), cfg.Stats.StreamMaxLen, log)
	statsRepo := redisRepo.NewStatsRepository(redisClient.Client(), log)

	// 5. Workers
	aggregationWorker := stats.NewAggregationWorker(
		streamRepo,
		statsRepo,
		&cfg.Worker,
		log,
	)

	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(aggregationWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 6. Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info("Received shutdown signal")

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
