package usecase

import (
	"context"

	"github.com/geo-lookup-proxy/internal/domain/repository"
	"github.com/geo-lookup-proxy/internal/pkg/errors"
	"github.com/geo-lookup-proxy/internal/usecase/dto"
	"go.uber.org/zap"
)

// StatsUseCase обрабатывает бизнес-логику для статистики запросов
type StatsUseCase struct {
	statsRepo repository.StatsRepository
	source    string
	logger    *zap.Logger
}

// NewStatsUseCase создает новый экземпляр StatsUseCase.
// source - имя хранилища для ответа ("redis" или "memory").
func NewStatsUseCase(
	statsRepo repository.StatsRepository,
	source string,
	logger *zap.Logger,
) *StatsUseCase {
	return &StatsUseCase{
		statsRepo: statsRepo,
		source:    source,
		logger:    logger,
	}
}

// GetStatistics возвращает текущие счётчики
func (uc *StatsUseCase) GetStatistics(ctx context.Context) (*dto.StatsResponse, error) {
	stats, err := uc.statsRepo.GetStats(ctx)
	if err != nil {
		uc.logger.Error("Failed to get lookup statistics", zap.Error(err))
		return nil, errors.ErrStatsUnavailable
	}

	return &dto.StatsResponse{
		Stats:  stats,
		Source: uc.source,
	}, nil
}
