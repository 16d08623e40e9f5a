package repository

import (
	"context"

	"github.com/geo-lookup-proxy/internal/domain"
)

// GeoNamesRepository определяет методы для работы с GeoNames API.
// Ответ возвращается как есть, без разбора.
type GeoNamesRepository interface {
	// CountryInfo возвращает список стран (countryInfoJSON)
	CountryInfo(ctx context.Context) (*domain.LookupResult, error)

	// Children возвращает дочерние административные единицы узла (childrenJSON)
	Children(ctx context.Context, geonameID string) (*domain.LookupResult, error)
}
