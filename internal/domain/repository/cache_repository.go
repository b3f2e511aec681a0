package repository

import (
	"context"
	"time"

	"github.com/accessibility-microservice/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// GetPresentation получает последний опубликованный результат обновления
	GetPresentation(ctx context.Context) (*domain.Presentation, error)

	// SetPresentation сохраняет последний результат обновления
	SetPresentation(ctx context.Context, p *domain.Presentation, ttl time.Duration) error
}
