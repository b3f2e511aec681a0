package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/accessibility-microservice/internal/config"
)

const (
	dialTimeout = 5 * time.Second
	// ReadTimeout больше нуля: XReadGroup воркера неблокирующий, долгих команд нет
	readTimeout = 3 * time.Second
	pingTimeout = 5 * time.Second
)

// Redis - общее соединение для кеша презентаций и стримов обновлений
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedis(cfg *config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: readTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}

	logger.Info("Redis connected", zap.String("addr", addr), zap.Int("db", cfg.DB))

	return &Redis{client: client, logger: logger}, nil
}

func (r *Redis) Close() error {
	r.logger.Info("Closing Redis connection")
	return r.client.Close()
}

// Health пингует сервер; статистика пула уходит в debug-лог
func (r *Redis) Health(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	stats := r.client.PoolStats()
	r.logger.Debug("Redis pool",
		zap.Uint32("total", stats.TotalConns),
		zap.Uint32("idle", stats.IdleConns),
		zap.Uint32("timeouts", stats.Timeouts))
	return nil
}

func (r *Redis) Client() *redis.Client {
	return r.client
}
