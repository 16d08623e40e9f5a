// Package memory хранит счётчики запросов в памяти процесса.
// Используется, когда Redis отключён (REDIS_ENABLED=false).
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geo-lookup-proxy/internal/domain"
)

// StatsRepository реализует repository.StatsRepository и repository.LookupEventPublisher:
// опубликованное событие сразу учитывается в счётчиках.
type StatsRepository struct {
	mu        sync.Mutex
	counters  map[string]int64
	updatedAt time.Time
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{
		counters: make(map[string]int64),
	}
}

func (r *StatsRepository) Increment(_ context.Context, action string, outcome domain.LookupOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters[domain.StatsField(action, outcome)]++
	r.updatedAt = time.Now().UTC()
	return nil
}

func (r *StatsRepository) GetStats(_ context.Context) (*domain.LookupStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := domain.NewLookupStats()
	for field, n := range r.counters {
		stats.Add(field, n)
	}
	stats.UpdatedAt = r.updatedAt
	return stats, nil
}

func (r *StatsRepository) Publish(ctx context.Context, event *domain.LookupEvent) error {
	return r.Increment(ctx, event.Action, event.Outcome)
}
