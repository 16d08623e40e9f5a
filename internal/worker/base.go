package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ConsumerIdentity - положение воркера в consumer group.
// Name должен быть стабильным между рестартами процесса.
type ConsumerIdentity struct {
	Group string
	Name  string
}

// BaseWorker содержит общую логику для воркеров, читающих stream через consumer group
type BaseWorker struct {
	name     string
	consumer ConsumerIdentity
	logger   *zap.Logger

	stopOnce sync.Once
	stopChan chan struct{}
}

// NewBaseWorker создает новый BaseWorker. Логгер получает поля worker, group и consumer.
func NewBaseWorker(name string, consumer ConsumerIdentity, logger *zap.Logger) *BaseWorker {
	return &BaseWorker{
		name:     name,
		consumer: consumer,
		logger: logger.With(
			zap.String("worker", name),
			zap.String("consumer_group", consumer.Group),
			zap.String("consumer_name", consumer.Name),
		),
		stopChan: make(chan struct{}),
	}
}

func (w *BaseWorker) Name() string {
	return w.name
}

// Stop закрывает канал остановки; повторные вызовы ничего не делают
func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker")
		close(w.stopChan)
	})
	return nil
}

func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

func (w *BaseWorker) Consumer() ConsumerIdentity {
	return w.consumer
}

func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}

// Pause ждёт d, Stop или отмену ctx. Возвращает false, если воркер надо завершать.
func (w *BaseWorker) Pause(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-w.stopChan:
		return false
	case <-ctx.Done():
		return false
	}
}
