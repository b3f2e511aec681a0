package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultShutdownTimeout - сколько Stop ждет завершения текущих циклов обновления
const DefaultShutdownTimeout = 30 * time.Second

// WorkerManager запускает воркеры в отдельных горутинах и останавливает их вместе
type WorkerManager struct {
	logger          *zap.Logger
	shutdownTimeout time.Duration

	mu      sync.Mutex
	workers []Worker
	wg      sync.WaitGroup
	done    chan struct{}
	failed  map[string]error
}

// NewWorkerManager создает менеджер. timeout <= 0 означает DefaultShutdownTimeout.
func NewWorkerManager(logger *zap.Logger, timeout time.Duration) *WorkerManager {
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	return &WorkerManager{
		logger:          logger,
		shutdownTimeout: timeout,
		done:            make(chan struct{}),
		failed:          make(map[string]error),
	}
}

func (m *WorkerManager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers = append(m.workers, w)
	m.logger.Info("Worker registered", zap.String("name", w.Name()))
}

// Start запускает все воркеры. Done закрывается, когда все они вернулись.
func (m *WorkerManager) Start(ctx context.Context) error {
	workers := m.snapshot()
	if len(workers) == 0 {
		return fmt.Errorf("no workers registered")
	}

	m.logger.Info("Starting workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		m.wg.Add(1)
		go func(w Worker) {
			defer m.wg.Done()

			if err := w.Start(ctx); err != nil && ctx.Err() == nil {
				m.logger.Error("Worker failed", zap.String("name", w.Name()), zap.Error(err))
				m.mu.Lock()
				m.failed[w.Name()] = err
				m.mu.Unlock()
			}
		}(w)
	}

	go func() {
		m.wg.Wait()
		close(m.done)
	}()

	return nil
}

// Done закрывается после выхода всех воркеров: штатного или по ошибке
func (m *WorkerManager) Done() <-chan struct{} {
	return m.done
}

// Failed возвращает ошибки воркеров, завершившихся не по остановке
func (m *WorkerManager) Failed() map[string]error {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]error, len(m.failed))
	for name, err := range m.failed {
		out[name] = err
	}
	return out
}

// Stop сигнализирует всем воркерам и ждет их не дольше shutdownTimeout
func (m *WorkerManager) Stop() error {
	workers := m.snapshot()
	m.logger.Info("Stopping workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker", zap.String("name", w.Name()), zap.Error(err))
		}
	}

	select {
	case <-m.done:
		m.logger.Info("All workers stopped gracefully")
		return nil
	case <-time.After(m.shutdownTimeout):
		m.logger.Warn("Workers shutdown timed out, refresh cycle may still be running",
			zap.Duration("timeout", m.shutdownTimeout))
		return fmt.Errorf("workers shutdown timed out after %v", m.shutdownTimeout)
	}
}

func (m *WorkerManager) snapshot() []Worker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Worker(nil), m.workers...)
}
