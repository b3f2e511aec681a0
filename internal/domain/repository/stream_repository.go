package repository

import (
	"context"
	"time"

	"github.com/accessibility-microservice/internal/domain"
)

// StreamRepository - Redis Streams для запросов на обновление и публикации результатов
type StreamRepository interface {
	// CreateConsumerGroup создает группу (и стрим); существующая группа не ошибка
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// ConsumeBatch читает до maxCount новых сообщений без блокировки
	ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error)

	// ClaimStale забирает себе сообщения, которые другой потребитель прочитал,
	// но не подтвердил дольше minIdle
	ClaimStale(ctx context.Context, stream, group, consumer string, minIdle time.Duration, maxCount int) ([]domain.StreamMessage, error)

	AckMessage(ctx context.Context, stream, group, messageID string) error

	// PublishToStream кладет data в поле "data" как JSON
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
