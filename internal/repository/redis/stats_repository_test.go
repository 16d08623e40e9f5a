package redis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/geo-lookup-proxy/internal/domain"
	redisRepo "github.com/geo-lookup-proxy/internal/repository/redis"
)

func TestStatsRepository_IncrementAndGet(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	client.Del(ctx, redisRepo.StatsKey)
	defer client.Del(ctx, redisRepo.StatsKey)

	repo := redisRepo.NewStatsRepository(client, zap.NewNop())

	require.NoError(t, repo.Increment(ctx, "getCountries", domain.OutcomeSuccess))
	require.NoError(t, repo.Increment(ctx, "getCountries", domain.OutcomeSuccess))
	require.NoError(t, repo.Increment(ctx, "getGovernorates", domain.OutcomeUpstreamError))
	require.NoError(t, repo.Increment(ctx, domain.UnknownAction, domain.OutcomeInvalidRequest))

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.ByAction["getCountries"].Success)
	assert.Equal(t, int64(1), stats.ByAction["getGovernorates"].UpstreamError)
	assert.Equal(t, int64(1), stats.ByAction[domain.UnknownAction].InvalidRequest)
	assert.False(t, stats.UpdatedAt.IsZero())
}

func TestStatsRepository_Empty(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	client.Del(ctx, redisRepo.StatsKey)

	stats, err := redisRepo.NewStatsRepository(client, zap.NewNop()).GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.Empty(t, stats.ByAction)
}
