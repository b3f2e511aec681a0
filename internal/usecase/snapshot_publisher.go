package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/accessibility-microservice/internal/domain"
	"github.com/accessibility-microservice/internal/domain/repository"
)

// SnapshotPublisher выносит результаты обновления за пределы процесса:
// кеш текущего результата, стрим для подписчиков и история в БД.
// Любая зависимость может быть nil, тогда соответствующий шаг пропускается.
type SnapshotPublisher struct {
	cache   repository.CacheRepository
	streams repository.StreamRepository
	history repository.HistoryRepository
	ttl     time.Duration
	logger  *zap.Logger
}

func NewSnapshotPublisher(
	cache repository.CacheRepository,
	streams repository.StreamRepository,
	history repository.HistoryRepository,
	ttl time.Duration,
	logger *zap.Logger,
) *SnapshotPublisher {
	return &SnapshotPublisher{
		cache:   cache,
		streams: streams,
		history: history,
		ttl:     ttl,
		logger:  logger,
	}
}

func (p *SnapshotPublisher) ShowPopulation(_ context.Context, pop *domain.Population) {
	p.logger.Debug("Population layer available", zap.String("category", pop.Key))
}

func (p *SnapshotPublisher) SetRefreshEnabled(bool) {}

func (p *SnapshotPublisher) Present(ctx context.Context, _ domain.TravelTimeSurface, pres *domain.Presentation) error {
	g, gctx := errgroup.WithContext(ctx)

	if p.cache != nil {
		g.Go(func() error {
			if err := p.cache.SetPresentation(gctx, pres, p.ttl); err != nil {
				return fmt.Errorf("cache presentation: %w", err)
			}
			return nil
		})
	}

	if p.streams != nil {
		g.Go(func() error {
			if err := p.streams.PublishToStream(gctx, domain.StreamPresented, pres); err != nil {
				return fmt.Errorf("publish presentation: %w", err)
			}
			return nil
		})
	}

	if p.history != nil {
		g.Go(func() error {
			if err := p.history.SavePresentation(gctx, pres); err != nil {
				return fmt.Errorf("save presentation: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.logger.Error("Failed to publish presentation",
			zap.String("presentation_id", pres.ID.String()),
			zap.Error(err))
		return err
	}
	return nil
}

func (p *SnapshotPublisher) NotifyFailure(ctx context.Context, err error) {
	if p.streams == nil {
		return
	}
	event := domain.RefreshFailedEvent{
		Error:    err.Error(),
		FailedAt: time.Now().UTC(),
	}
	if pubErr := p.streams.PublishToStream(ctx, domain.StreamRefreshFailed, event); pubErr != nil {
		p.logger.Error("Failed to publish refresh failure", zap.Error(pubErr))
	}
}
