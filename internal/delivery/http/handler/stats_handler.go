package handler

import (
	"github.com/geo-lookup-proxy/internal/pkg/utils"
	"github.com/geo-lookup-proxy/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StatsHandler обрабатывает запросы статистики
type StatsHandler struct {
	statsUC *usecase.StatsUseCase
	logger  *zap.Logger
}

// NewStatsHandler создает новый экземпляр StatsHandler
func NewStatsHandler(statsUC *usecase.StatsUseCase, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		statsUC: statsUC,
		logger:  logger,
	}
}

// GetStatistics godoc
// @Summary Lookup statistics
// @Description Счётчики запросов по action и итогу (success, upstream_error, invalid_request)
// @Tags Statistics
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.StatsResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/stats [get]
func (h *StatsHandler) GetStatistics(c *fiber.Ctx) error {
	h.logger.Debug("Handling get statistics request")

	stats, err := h.statsUC.GetStatistics(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, stats)
}
