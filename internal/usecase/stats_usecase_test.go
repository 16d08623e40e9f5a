package usecase_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/geo-lookup-proxy/internal/domain"
	"github.com/geo-lookup-proxy/internal/pkg/errors"
	"github.com/geo-lookup-proxy/internal/usecase"
)

// MockStatsRepository is a mock of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Increment(ctx context.Context, action string, outcome domain.LookupOutcome) error {
	args := m.Called(ctx, action, outcome)
	return args.Error(0)
}

func (m *MockStatsRepository) GetStats(ctx context.Context) (*domain.LookupStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LookupStats), args.Error(1)
}

func TestStatsUseCase_GetStatistics(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("returns repository stats with source", func(t *testing.T) {
		repo := &MockStatsRepository{}
		uc := usecase.NewStatsUseCase(repo, "memory", logger)

		stats := domain.NewLookupStats()
		stats.Add(domain.StatsField("getCountries", domain.OutcomeSuccess), 2)
		repo.On("GetStats", ctx).Return(stats, nil).Once()

		resp, err := uc.GetStatistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, "memory", resp.Source)
		assert.Equal(t, int64(2), resp.Stats.Total)
		repo.AssertExpectations(t)
	})

	t.Run("repository error maps to ErrStatsUnavailable", func(t *testing.T) {
		repo := &MockStatsRepository{}
		uc := usecase.NewStatsUseCase(repo, "redis", logger)

		repo.On("GetStats", ctx).Return(nil, stderrors.New("redis: connection refused")).Once()

		resp, err := uc.GetStatistics(ctx)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, errors.ErrStatsUnavailable)
	})
}
