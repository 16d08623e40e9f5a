package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/geo-lookup-proxy/internal/domain"
	"github.com/geo-lookup-proxy/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// StatsKey - hash со счётчиками "<action>:<outcome>"
	StatsKey = "geo:lookup:stats"

	statsUpdatedAtField = "updated_at"
)

type statsRepository struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewStatsRepository создает StatsRepository поверх Redis hash
func NewStatsRepository(client *redis.Client, logger *zap.Logger) repository.StatsRepository {
	return &statsRepository{
		client: client,
		key:    StatsKey,
		logger: logger,
	}
}

func (r *statsRepository) Increment(ctx context.Context, action string, outcome domain.LookupOutcome) error {
	field := domain.StatsField(action, outcome)

	pipe := r.client.TxPipeline()
	pipe.HIncrBy(ctx, r.key, field, 1)
	pipe.HSet(ctx, r.key, statsUpdatedAtField, time.Now().UTC().Format(time.RFC3339Nano))
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to increment stats", zap.String("field", field), zap.Error(err))
		return fmt.Errorf("stats increment error: %w", err)
	}
	return nil
}

func (r *statsRepository) GetStats(ctx context.Context) (*domain.LookupStats, error) {
	values, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		r.logger.Error("Failed to read stats", zap.Error(err))
		return nil, fmt.Errorf("stats read error: %w", err)
	}

	stats := domain.NewLookupStats()
	for field, raw := range values {
		if field == statsUpdatedAtField {
			if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
				stats.UpdatedAt = ts
			}
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			r.logger.Warn("Skipping non-numeric stats field", zap.String("field", field))
			continue
		}
		stats.Add(field, n)
	}

	return stats, nil
}
