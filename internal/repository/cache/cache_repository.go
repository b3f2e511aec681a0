package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/accessibility-microservice/internal/domain"
	"github.com/accessibility-microservice/internal/domain/repository"
)

// PresentationKey - ключ последнего опубликованного результата обновления
const PresentationKey = "presentation:current"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return newCacheRepository(redis.Client(), redis.logger)
}

func newCacheRepository(client *redis.Client, logger *zap.Logger) *cacheRepository {
	return &cacheRepository{
		client: client,
		logger: logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// GetPresentation читает последний результат. Промах кеша - (nil, nil).
func (r *cacheRepository) GetPresentation(ctx context.Context) (*domain.Presentation, error) {
	data, err := r.Get(ctx, PresentationKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var p domain.Presentation
	if err := json.Unmarshal(data, &p); err != nil {
		r.logger.Error("Failed to unmarshal presentation from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal presentation: %w", err)
	}

	return &p, nil
}

// SetPresentation сохраняет результат. ttl = 0 - без истечения.
func (r *cacheRepository) SetPresentation(ctx context.Context, p *domain.Presentation, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		r.logger.Error("Failed to marshal presentation", zap.Error(err))
		return fmt.Errorf("marshal presentation: %w", err)
	}

	return r.Set(ctx, PresentationKey, data, ttl)
}
