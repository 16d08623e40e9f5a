package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/geo-lookup-proxy/internal/domain"
	"github.com/geo-lookup-proxy/internal/domain/repository"
	"github.com/geo-lookup-proxy/internal/pkg/errors"
	"github.com/geo-lookup-proxy/internal/pkg/validator"
	"github.com/geo-lookup-proxy/internal/usecase/dto"
)

// LookupUseCase - проксирование запросов стран и административных единиц в GeoNames
type LookupUseCase struct {
	geoNamesRepo   repository.GeoNamesRepository
	publisher      repository.LookupEventPublisher
	logger         *zap.Logger
	publishTimeout time.Duration
}

// NewLookupUseCase - создание нового LookupUseCase.
// publisher может быть nil, тогда события не публикуются.
func NewLookupUseCase(
	geoNamesRepo repository.GeoNamesRepository,
	publisher repository.LookupEventPublisher,
	logger *zap.Logger,
	publishTimeout time.Duration,
) *LookupUseCase {
	return &LookupUseCase{
		geoNamesRepo:   geoNamesRepo,
		publisher:      publisher,
		logger:         logger,
		publishTimeout: publishTimeout,
	}
}

// Lookup выполняет один запрос к GeoNames и возвращает тело ответа без изменений.
// Ошибки: ErrInvalidAction, ErrMissingIdentifier, ErrUpstreamUnavailable (обёрнута).
func (uc *LookupUseCase) Lookup(ctx context.Context, req dto.LookupRequest) (*domain.LookupResult, error) {
	start := time.Now()

	lookup, err := parseLookupRequest(req)
	if err != nil {
		uc.logger.Debug("Rejected lookup request",
			zap.String("action", req.Action),
			zap.Error(err))
		uc.record(ctx, req.Action, domain.OutcomeInvalidRequest, start)
		return nil, err
	}

	var result *domain.LookupResult
	switch lookup.Action {
	case domain.ActionGetCountries:
		result, err = uc.geoNamesRepo.CountryInfo(ctx)
	case domain.ActionGetGovernorates, domain.ActionGetJudiciaries:
		result, err = uc.geoNamesRepo.Children(ctx, lookup.ID)
	default:
		err = errors.ErrInvalidAction
		uc.record(ctx, req.Action, domain.OutcomeInvalidRequest, start)
		return nil, err
	}

	if err != nil {
		uc.logger.Warn("Upstream lookup failed",
			zap.String("action", lookup.Action.String()),
			zap.String("id", lookup.ID),
			zap.Error(err))
		uc.record(ctx, req.Action, domain.OutcomeUpstreamError, start)
		return nil, fmt.Errorf("%w: %v", errors.ErrUpstreamUnavailable, err)
	}

	uc.record(ctx, req.Action, domain.OutcomeSuccess, start)
	return result, nil
}

func parseLookupRequest(req dto.LookupRequest) (domain.LookupRequest, error) {
	if err := validator.Validate(&req); err != nil {
		for _, field := range validator.FailedFields(err) {
			if field == "Action" {
				return domain.LookupRequest{}, errors.ErrInvalidAction
			}
		}
		action, _ := domain.ParseAction(req.Action)
		return domain.LookupRequest{}, errors.ErrMissingIdentifier.WithDetails(map[string]interface{}{
			"action": req.Action,
			"param":  action.IDParam(),
		})
	}

	action, ok := domain.ParseAction(req.Action)
	if !ok {
		return domain.LookupRequest{}, errors.ErrInvalidAction
	}

	lookup := domain.LookupRequest{Action: action}
	switch action {
	case domain.ActionGetGovernorates:
		lookup.ID = req.CountryID
	case domain.ActionGetJudiciaries:
		lookup.ID = req.RegionID
	}
	return lookup, nil
}

// record публикует LookupEvent. Ошибки публикации только логируются.
func (uc *LookupUseCase) record(ctx context.Context, action string, outcome domain.LookupOutcome, start time.Time) {
	if uc.publisher == nil {
		return
	}

	event := domain.NewLookupEvent(action, outcome, time.Since(start))

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.publishTimeout)
	defer cancel()

	if err := uc.publisher.Publish(pubCtx, event); err != nil {
		uc.logger.Warn("Failed to publish lookup event",
			zap.String("event_id", event.ID.String()),
			zap.Error(err))
	}
}
