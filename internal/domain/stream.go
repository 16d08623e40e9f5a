package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamGeoLookup = "stream:geo:lookup"
)

// LookupOutcome - итог обработки запроса
type LookupOutcome string

const (
	OutcomeSuccess        LookupOutcome = "success"
	OutcomeUpstreamError  LookupOutcome = "upstream_error"
	OutcomeInvalidRequest LookupOutcome = "invalid_request"
)

// LookupEvent - событие о выполненном запросе, публикуется в stream:geo:lookup
type LookupEvent struct {
	ID         uuid.UUID     `json:"id"`
	Action     string        `json:"action"`
	Outcome    LookupOutcome `json:"outcome"`
	DurationMs int64         `json:"duration_ms"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewLookupEvent создает событие с новым ID.
// action может быть произвольной строкой для невалидных запросов.
func NewLookupEvent(action string, outcome LookupOutcome, duration time.Duration) *LookupEvent {
	if _, ok := ParseAction(action); !ok {
		action = UnknownAction
	}
	return &LookupEvent{
		ID:         uuid.New(),
		Action:     action,
		Outcome:    outcome,
		DurationMs: duration.Milliseconds(),
		OccurredAt: time.Now().UTC(),
	}
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
