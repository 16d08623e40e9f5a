package domain

import (
	"strings"
	"time"
)

// UnknownAction - ключ статистики для запросов с неизвестным action
const UnknownAction = "unknown"

// LookupStats - счётчики запросов по action и outcome
type LookupStats struct {
	Total     int64                    `json:"total"`
	ByAction  map[string]OutcomeCounts `json:"by_action"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// OutcomeCounts - счётчики по итогу для одного action
type OutcomeCounts struct {
	Success        int64 `json:"success"`
	UpstreamError  int64 `json:"upstream_error"`
	InvalidRequest int64 `json:"invalid_request"`
}

// NewLookupStats создает пустую статистику
func NewLookupStats() *LookupStats {
	return &LookupStats{
		ByAction: make(map[string]OutcomeCounts),
	}
}

// StatsField - имя поля счётчика в хранилище, "<action>:<outcome>"
func StatsField(action string, outcome LookupOutcome) string {
	return action + ":" + string(outcome)
}

// Add добавляет n к счётчику поля "<action>:<outcome>".
// Поля с неизвестным outcome игнорируются.
func (s *LookupStats) Add(field string, n int64) {
	idx := strings.LastIndex(field, ":")
	if idx <= 0 {
		return
	}
	action, outcome := field[:idx], LookupOutcome(field[idx+1:])

	counts := s.ByAction[action]
	switch outcome {
	case OutcomeSuccess:
		counts.Success += n
	case OutcomeUpstreamError:
		counts.UpstreamError += n
	case OutcomeInvalidRequest:
		counts.InvalidRequest += n
	default:
		return
	}
	s.ByAction[action] = counts
	s.Total += n
}
