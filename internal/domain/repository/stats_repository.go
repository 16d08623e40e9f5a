package repository

import (
	"context"

	"github.com/geo-lookup-proxy/internal/domain"
)

// StatsRepository хранит счётчики запросов
type StatsRepository interface {
	// Increment увеличивает счётчик action/outcome на 1
	Increment(ctx context.Context, action string, outcome domain.LookupOutcome) error

	// GetStats возвращает текущие счётчики
	GetStats(ctx context.Context) (*domain.LookupStats, error)
}

// LookupEventPublisher принимает события о выполненных запросах
type LookupEventPublisher interface {
	Publish(ctx context.Context, event *domain.LookupEvent) error
}
