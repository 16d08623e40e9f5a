package main

// @title Geo Lookup Proxy API
// @version 1.0.0
// @description Прокси к GeoNames для мобильного приложения: список стран, губернаторств и округов.
// @description Тело ответа GeoNames возвращается без изменений; при недоступности upstream - {"error":"Unable to fetch data"}.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/geo-lookup-proxy/docs"
	"github.com/geo-lookup-proxy/internal/config"
	httpDelivery "github.com/geo-lookup-proxy/internal/delivery/http"
	"github.com/geo-lookup-proxy/internal/delivery/http/handler"
	"github.com/geo-lookup-proxy/internal/domain/repository"
	"github.com/geo-lookup-proxy/internal/infrastructure/geonames"
	"github.com/geo-lookup-proxy/internal/pkg/logger"
	"github.com/geo-lookup-proxy/internal/repository/memory"
	redisRepo "github.com/geo-lookup-proxy/internal/repository/redis"
	"github.com/geo-lookup-proxy/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Geo Lookup Proxy")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("geonames_base_url", cfg.GeoNames.BaseURL),
		zap.Duration("geonames_timeout", cfg.GeoNames.RequestTimeout),
		zap.Int("failure_status", cfg.Proxy.FailureStatus),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	// 3. Lookup telemetry: Redis stream + hash, либо счётчики в памяти
	var (
		publisher   repository.LookupEventPublisher
		statsRepo   repository.StatsRepository
		statsSource string
		redisHealth httpDelivery.HealthChecker
		redisClient *redisRepo.Redis
	)

	if cfg.Redis.Enabled {
		redisClient, err = redisRepo.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}

		streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), cfg.Stats.StreamMaxLen, log)
		publisher = redisRepo.NewEventPublisher(streamRepo)
		statsRepo = redisRepo.NewStatsRepository(redisClient.Client(), log)
		statsSource = "redis"
		redisHealth = redisClient
	} else {
		memStats := memory.NewStatsRepository()
		publisher = memStats
		statsRepo = memStats
		statsSource = "memory"
		log.Info("Redis disabled, lookup statistics are kept in memory")
	}

	// 4. Upstream client
	geoNamesClient := geonames.NewGeoNamesClient(&cfg.GeoNames, log)

	// 5. Use cases
	lookupUC := usecase.NewLookupUseCase(geoNamesClient, publisher, log, cfg.Stats.PublishTimeout)
	statsUC := usecase.NewStatsUseCase(statsRepo, statsSource, log)

	// 6. Handlers and server
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewLookupHandler(lookupUC, cfg.Proxy.FailureStatus, log),
		handler.NewStatsHandler(statsUC, log),
		redisHealth,
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully", zap.String("address", cfg.GetServerAddr()))

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
