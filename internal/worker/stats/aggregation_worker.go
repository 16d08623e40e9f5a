package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/geo-lookup-proxy/internal/config"
	"github.com/geo-lookup-proxy/internal/domain"
	"github.com/geo-lookup-proxy/internal/domain/repository"
	"github.com/geo-lookup-proxy/internal/worker"
	"go.uber.org/zap"
)

const (
	emptyQueueSleep = 200 * time.Millisecond // пауза если очередь пуста
	errorSleep      = time.Second
)

// AggregationWorker читает LookupEvent из stream:geo:lookup и обновляет счётчики
type AggregationWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	statsRepo    repository.StatsRepository
	batchSize    int
	claimMinIdle time.Duration
}

// NewAggregationWorker создает новый AggregationWorker
func NewAggregationWorker(
	streamRepo repository.StreamRepository,
	statsRepo repository.StatsRepository,
	cfg *config.WorkerConfig,
	logger *zap.Logger,
) *AggregationWorker {
	consumer := worker.ConsumerIdentity{Group: cfg.ConsumerGroup, Name: cfg.ConsumerName}

	return &AggregationWorker{
		BaseWorker:   worker.NewBaseWorker("lookup-stats-aggregation", consumer, logger),
		streamRepo:   streamRepo,
		statsRepo:    statsRepo,
		batchSize:    cfg.BatchSize,
		claimMinIdle: cfg.ClaimMinIdle,
	}
}

// Start запускает цикл обработки до Stop или отмены ctx
func (w *AggregationWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting AggregationWorker",
		zap.Int("batch_size", w.batchSize),
		zap.Duration("claim_min_idle", w.claimMinIdle))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamGeoLookup, w.Consumer().Group); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		processed, err := w.ProcessBatch(ctx)
		switch {
		case err != nil:
			logger.Error("Failed to process batch", zap.Error(err))
			w.Pause(ctx, errorSleep)
		case processed == 0:
			w.Pause(ctx, emptyQueueSleep)
		}
	}
}

// nextBatch отдаёт сначала зависшие в pending сообщения (свои после ошибки
// или чужие после рестарта), затем новые
func (w *AggregationWorker) nextBatch(ctx context.Context) ([]domain.StreamMessage, error) {
	consumer := w.Consumer()

	claimed, err := w.streamRepo.ClaimPending(ctx, domain.StreamGeoLookup, consumer.Group, consumer.Name, w.claimMinIdle, w.batchSize)
	if err != nil {
		return nil, err
	}
	if len(claimed) > 0 {
		return claimed, nil
	}

	return w.streamRepo.ConsumeBatch(ctx, domain.StreamGeoLookup, consumer.Group, consumer.Name, w.batchSize)
}

// ProcessBatch обрабатывает до batchSize сообщений и возвращает количество прочитанных.
// Битые сообщения подтверждаются и пропускаются. Сообщения, для которых не удалось
// обновить счётчик, остаются в pending и забираются повторно через claimMinIdle.
func (w *AggregationWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.nextBatch(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	ackIDs := make([]string, 0, len(messages))
	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			ackIDs = append(ackIDs, msg.ID)
			continue
		}

		if err := w.statsRepo.Increment(ctx, event.Action, event.Outcome); err != nil {
			logger.Error("Failed to increment stats",
				zap.String("message_id", msg.ID),
				zap.String("event_id", event.ID.String()),
				zap.Error(err))
			continue
		}
		ackIDs = append(ackIDs, msg.ID)
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamGeoLookup, w.Consumer().Group, ackIDs); err != nil {
		// Не критично - счётчики уже обновлены
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	logger.Debug("Batch processed",
		zap.Int("read", len(messages)),
		zap.Int("acked", len(ackIDs)))

	return len(messages), nil
}

func parseMessage(msg domain.StreamMessage) (*domain.LookupEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing 'data' field")
	}

	var event domain.LookupEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.Action == "" || event.Outcome == "" {
		return nil, fmt.Errorf("event without action or outcome")
	}

	return &event, nil
}
