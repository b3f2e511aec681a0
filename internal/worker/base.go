package worker

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BaseWorker - общая часть stream-воркеров: имя, группа и имя потребителя, канал остановки
type BaseWorker struct {
	name          string
	consumerGroup string
	consumerName  string
	logger        *zap.Logger

	mu       sync.Mutex
	stopChan chan struct{}
	stopped  bool
}

// NewBaseWorker создает BaseWorker. Имя потребителя - hostname-pid, чтобы несколько
// процессов в одной группе не делили pending-список.
func NewBaseWorker(name, consumerGroup string, logger *zap.Logger) *BaseWorker {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = name
	}

	return &BaseWorker{
		name:          name,
		consumerGroup: consumerGroup,
		consumerName:  fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		logger:        logger.With(zap.String("worker", name)),
		stopChan:      make(chan struct{}),
	}
}

func (w *BaseWorker) Name() string {
	return w.name
}

// Stop закрывает канал остановки. Повторный вызов ничего не делает.
func (w *BaseWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.logger.Info("Stopping worker")
	close(w.stopChan)
	w.stopped = true
	return nil
}

func (w *BaseWorker) IsStopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

func (w *BaseWorker) ConsumerGroup() string {
	return w.consumerGroup
}

func (w *BaseWorker) ConsumerName() string {
	return w.consumerName
}

func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}

// Pause ждет d, остановки воркера или отмены ctx.
// Возвращает false, если ждать дальше не нужно.
func (w *BaseWorker) Pause(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-w.stopChan:
		return false
	case <-ctx.Done():
		return false
	}
}
