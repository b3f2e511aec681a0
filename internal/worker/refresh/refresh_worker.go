package refresh

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/accessibility-microservice/internal/domain"
	"github.com/accessibility-microservice/internal/domain/repository"
	"github.com/accessibility-microservice/internal/pkg/errors"
	"github.com/accessibility-microservice/internal/worker"
)

const (
	defaultBatchSize = 10
	defaultPoll      = 100 * time.Millisecond
	errorPause       = time.Second
	// Запрос дольше этого в pending другого потребителя считается брошенным.
	// Цикл обновления ограничен таймаутом сервиса анализа, так что живой потребитель успевает.
	staleAfter = 5 * time.Minute
)

// Refresher запускает цикл обновления с патчем параметров
type Refresher interface {
	TriggerWith(ctx context.Context, patch *domain.ParametersPatch) (*domain.Presentation, error)
}

// RefreshWorker читает запросы на обновление из Redis Stream и публикует результат
type RefreshWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	refresher    Refresher
	batchSize    int
	pollInterval time.Duration
}

// NewRefreshWorker создает новый RefreshWorker
func NewRefreshWorker(
	streamRepo repository.StreamRepository,
	refresher Refresher,
	consumerGroup string,
	batchSize int,
	pollInterval time.Duration,
	logger *zap.Logger,
) *RefreshWorker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if pollInterval <= 0 {
		pollInterval = defaultPoll
	}

	return &RefreshWorker{
		BaseWorker:   worker.NewBaseWorker("accessibility-refresh", consumerGroup, logger),
		streamRepo:   streamRepo,
		refresher:    refresher,
		batchSize:    batchSize,
		pollInterval: pollInterval,
	}
}

// Start запускает воркер
func (w *RefreshWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting RefreshWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamRefreshRequest, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	if n, err := w.ReclaimStale(ctx); err != nil {
		logger.Warn("Failed to reclaim stale requests", zap.Error(err))
	} else if n > 0 {
		logger.Info("Reclaimed stale requests", zap.Int("count", n))
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
		if err != nil {
			logger.Error("Failed to process batch", zap.Error(err))
			w.Pause(ctx, errorPause)
			continue
		}
		if processed == 0 {
			w.Pause(ctx, w.pollInterval)
		}
	}
}

// ProcessBatch обрабатывает сообщения по одному: каждый запрос - отдельный цикл.
// Возвращает количество прочитанных сообщений.
func (w *RefreshWorker) ProcessBatch(ctx context.Context) (int, error) {
	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamRefreshRequest,
		w.ConsumerGroup(),
		w.ConsumerName(),
		w.batchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	for _, msg := range messages {
		w.handle(ctx, msg)
	}
	return len(messages), nil
}

// ReclaimStale обрабатывает запросы, оставшиеся неподтвержденными у упавших потребителей
func (w *RefreshWorker) ReclaimStale(ctx context.Context) (int, error) {
	messages, err := w.streamRepo.ClaimStale(
		ctx,
		domain.StreamRefreshRequest,
		w.ConsumerGroup(),
		w.ConsumerName(),
		staleAfter,
		w.batchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to claim stale messages: %w", err)
	}
	for _, msg := range messages {
		w.handle(ctx, msg)
	}
	return len(messages), nil
}

func (w *RefreshWorker) handle(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	// ACK в любом случае: повтор запроса на обновление ничего не исправит
	defer func() {
		if err := w.streamRepo.AckMessage(ctx, domain.StreamRefreshRequest, w.ConsumerGroup(), msg.ID); err != nil {
			logger.Error("Failed to ack message", zap.Error(err))
		}
	}()

	event, err := parseMessage(msg)
	if err != nil {
		logger.Warn("Failed to parse message, skipping", zap.Error(err))
		return
	}

	done := &domain.RefreshDoneEvent{RequestID: event.RequestID}

	presentation, err := w.refresher.TriggerWith(ctx, event.Parameters)
	switch {
	case err == nil:
		done.Cycle = presentation.Cycle
		done.PresentationID = &presentation.ID
	case stderrors.Is(err, errors.ErrRefreshInProgress):
		done.Dropped = true
		logger.Info("Refresh request dropped, cycle in progress",
			zap.String("request_id", event.RequestID.String()))
	default:
		done.Error = err.Error()
		logger.Warn("Refresh request failed",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))
	}

	if err := w.streamRepo.PublishToStream(ctx, domain.StreamRefreshDone, done); err != nil {
		logger.Error("Failed to publish done event",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))
	}
}

func parseMessage(msg domain.StreamMessage) (*domain.RefreshRequestEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing 'data' field")
	}

	var event domain.RefreshRequestEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return &event, nil
}
