package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/accessibility-microservice/internal/domain"
	"github.com/accessibility-microservice/internal/domain/repository"
)

const (
	dataField = "data"
	// Стримы результатов читают только свежие записи, старые обрезаются (приблизительно)
	streamMaxLen = 10000
)

type streamRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewStreamRepository(client *redis.Client, logger *zap.Logger) repository.StreamRepository {
	return &streamRepository{
		client: client,
		logger: logger,
	}
}

// CreateConsumerGroup создает группу с позиции "$": запросы, отправленные до первого
// запуска воркера, не выполняются.
func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	err := r.client.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	switch {
	case err == nil:
		r.logger.Info("Consumer group created", zap.String("stream", stream), zap.String("group", group))
		return nil
	case strings.HasPrefix(err.Error(), "BUSYGROUP"):
		r.logger.Debug("Consumer group already exists", zap.String("stream", stream), zap.String("group", group))
		return nil
	default:
		return fmt.Errorf("create consumer group %s/%s: %w", stream, group, err)
	}
}

// ConsumeBatch - XREADGROUP без BLOCK. Пустой стрим дает пустой срез без ошибки.
func (r *streamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	result, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    int64(maxCount),
		Block:    -1,
	}).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read stream %s: %w", stream, err)
	}

	var messages []domain.StreamMessage
	for _, s := range result {
		messages = append(messages, r.toMessages(s.Messages)...)
	}
	if len(messages) > 0 {
		r.logger.Debug("Batch consumed", zap.String("stream", stream), zap.Int("count", len(messages)))
	}
	return messages, nil
}

// ClaimStale - XAUTOCLAIM с начала pending-списка группы
func (r *streamRepository) ClaimStale(
	ctx context.Context,
	stream, group, consumer string,
	minIdle time.Duration,
	maxCount int,
) ([]domain.StreamMessage, error) {
	claimed, _, err := r.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   stream,
		Group:    group,
		Consumer: consumer,
		MinIdle:  minIdle,
		Start:    "0-0",
		Count:    int64(maxCount),
	}).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim stale messages %s: %w", stream, err)
	}

	if len(claimed) > 0 {
		r.logger.Info("Claimed stale messages",
			zap.String("stream", stream),
			zap.String("consumer", consumer),
			zap.Int("count", len(claimed)))
	}
	return r.toMessages(claimed), nil
}

// toMessages возвращает и сообщения без поля data: воркер должен их подтвердить
func (r *streamRepository) toMessages(raw []redis.XMessage) []domain.StreamMessage {
	out := make([]domain.StreamMessage, 0, len(raw))
	for _, msg := range raw {
		data, ok := msg.Values[dataField].(string)
		if !ok {
			r.logger.Warn("Message without data field", zap.String("message_id", msg.ID))
		}
		out = append(out, domain.StreamMessage{ID: msg.ID, Data: data})
	}
	return out
}

func (r *streamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	if err := r.client.XAck(ctx, stream, group, messageID).Err(); err != nil {
		return fmt.Errorf("ack %s in %s: %w", messageID, stream, err)
	}
	return nil
}

func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", stream, err)
	}

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{dataField: string(payload)},
	}).Result()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", stream, err)
	}

	r.logger.Debug("Published to stream", zap.String("stream", stream), zap.String("message_id", id))
	return nil
}
