// Package worker содержит общую инфраструктуру фоновых воркеров:
// интерфейс Worker, BaseWorker с сигналом остановки и WorkerManager.
package worker

import (
	"context"
)

// Worker интерфейс для всех воркеров
type Worker interface {
	// Start запускает воркер и блокируется до остановки
	Start(ctx context.Context) error

	// Stop сигнализирует воркеру о завершении, повторный вызов безопасен
	Stop() error

	Name() string
}
