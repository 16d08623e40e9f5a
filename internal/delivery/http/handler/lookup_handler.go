package handler

import (
	"net/url"
	"strings"

	"github.com/geo-lookup-proxy/internal/domain"
	"github.com/geo-lookup-proxy/internal/pkg/errors"
	"github.com/geo-lookup-proxy/internal/pkg/utils"
	"github.com/geo-lookup-proxy/internal/usecase"
	"github.com/geo-lookup-proxy/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LookupHandler - обработчик запросов стран и административных единиц
type LookupHandler struct {
	lookupUC      *usecase.LookupUseCase
	failureStatus int
	logger        *zap.Logger
}

// NewLookupHandler - создание нового LookupHandler.
// failureStatus - статус ответа {"error":"Unable to fetch data"}.
func NewLookupHandler(lookupUC *usecase.LookupUseCase, failureStatus int, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{
		lookupUC:      lookupUC,
		failureStatus: failureStatus,
		logger:        logger,
	}
}

// Lookup godoc
// @Summary Lookup by action
// @Description Проксирует запрос в GeoNames по параметру action и возвращает тело ответа без изменений. Этот же обработчик доступен по /fetch.php для старых клиентов.
// @Tags Geo
// @Produce json
// @Param action query string true "getCountries | getGovernorates | getJudiciaries"
// @Param countryId query string false "geonameId страны (для getGovernorates)"
// @Param regionId query string false "geonameId региона (для getJudiciaries)"
// @Success 200 {object} map[string]interface{} "Ответ GeoNames как есть"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} map[string]string "{\"error\":\"Unable to fetch data\"}"
// @Router /api/v1/geo [get]
func (h *LookupHandler) Lookup(c *fiber.Ctx) error {
	req := dto.LookupRequest{
		Action:    strings.Clone(c.Query("action")),
		CountryID: strings.Clone(c.Query("countryId")),
		RegionID:  strings.Clone(c.Query("regionId")),
	}
	return h.respond(c, req)
}

// GetCountries godoc
// @Summary List countries
// @Tags Geo
// @Produce json
// @Success 200 {object} map[string]interface{} "countryInfoJSON как есть"
// @Failure 502 {object} map[string]string
// @Router /api/v1/geo/countries [get]
func (h *LookupHandler) GetCountries(c *fiber.Ctx) error {
	return h.respond(c, dto.LookupRequest{Action: domain.ActionGetCountries.String()})
}

// GetGovernorates godoc
// @Summary List governorates of a country
// @Tags Geo
// @Produce json
// @Param countryId path string true "geonameId страны"
// @Success 200 {object} map[string]interface{} "childrenJSON как есть"
// @Failure 502 {object} map[string]string
// @Router /api/v1/geo/countries/{countryId}/governorates [get]
func (h *LookupHandler) GetGovernorates(c *fiber.Ctx) error {
	countryID, err := pathParam(c, "countryId")
	if err != nil {
		return utils.SendError(c, err)
	}
	return h.respond(c, dto.LookupRequest{
		Action:    domain.ActionGetGovernorates.String(),
		CountryID: countryID,
	})
}

// GetJudiciaries godoc
// @Summary List judiciaries of a governorate
// @Tags Geo
// @Produce json
// @Param regionId path string true "geonameId региона"
// @Success 200 {object} map[string]interface{} "childrenJSON как есть"
// @Failure 502 {object} map[string]string
// @Router /api/v1/geo/regions/{regionId}/judiciaries [get]
func (h *LookupHandler) GetJudiciaries(c *fiber.Ctx) error {
	regionID, err := pathParam(c, "regionId")
	if err != nil {
		return utils.SendError(c, err)
	}
	return h.respond(c, dto.LookupRequest{
		Action:   domain.ActionGetJudiciaries.String(),
		RegionID: regionID,
	})
}

// pathParam - декодированный сегмент пути. Роутинг идёт по сырому пути,
// поэтому %2F внутри идентификатора не разбивает маршрут.
func pathParam(c *fiber.Ctx, name string) (string, error) {
	value, err := url.PathUnescape(strings.Clone(c.Params(name)))
	if err != nil {
		return "", errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"param": name,
		})
	}
	return value, nil
}

func (h *LookupHandler) respond(c *fiber.Ctx, req dto.LookupRequest) error {
	result, err := h.lookupUC.Lookup(c.UserContext(), req)
	if err != nil {
		if appErr, ok := errors.As(err); ok && appErr.Code == errors.ErrUpstreamUnavailable.Code {
			return utils.SendUpstreamFailure(c, h.failureStatus)
		}
		return utils.SendError(c, err)
	}

	return utils.SendRaw(c, result.Body, result.ContentType)
}
