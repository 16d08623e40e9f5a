package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/geo-lookup-proxy/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	connectTimeout = 5 * time.Second
	// healthTimeout ограничивает Health, если у ctx нет своего дедлайна
	healthTimeout = 2 * time.Second
)

// Redis - подключение к Redis для стрима событий и счётчиков
type Redis struct {
	client *redis.Client
	addr   string
	logger *zap.Logger
}

// NewRedis подключается и проверяет соединение PING; при ошибке клиент закрывается
func NewRedis(cfg *config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	opts := clientOptions(cfg)
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	logger.Info("Redis connected",
		zap.String("addr", opts.Addr),
		zap.Int("db", cfg.DB))

	return newRedis(client, logger), nil
}

func newRedis(client *redis.Client, logger *zap.Logger) *Redis {
	return &Redis{
		client: client,
		addr:   client.Options().Addr,
		logger: logger,
	}
}

func clientOptions(cfg *config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: connectTimeout,
		// дедлайн ctx доходит до сокета, иначе Health ограничен только ReadTimeout
		ContextTimeoutEnabled: true,
	}
}

func (r *Redis) Close() error {
	r.logger.Info("Closing Redis connection", zap.String("addr", r.addr))
	return r.client.Close()
}

// Health - PING, не дольше healthTimeout при ctx без дедлайна
func (r *Redis) Health(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, healthTimeout)
		defer cancel()
	}

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis %s: %w", r.addr, err)
	}
	return nil
}

func (r *Redis) Client() *redis.Client {
	return r.client
}
