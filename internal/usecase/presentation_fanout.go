package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/accessibility-microservice/internal/domain"
	"github.com/accessibility-microservice/internal/domain/repository"
)

// PresentationFanout рассылает все вызовы нескольким приемникам
type PresentationFanout struct {
	sinks []repository.PresentationSync
}

func NewPresentationFanout(sinks ...repository.PresentationSync) *PresentationFanout {
	return &PresentationFanout{sinks: sinks}
}

func (f *PresentationFanout) ShowPopulation(ctx context.Context, pop *domain.Population) {
	for _, s := range f.sinks {
		s.ShowPopulation(ctx, pop)
	}
}

func (f *PresentationFanout) SetRefreshEnabled(enabled bool) {
	for _, s := range f.sinks {
		s.SetRefreshEnabled(enabled)
	}
}

// Present вызывает приемники параллельно и возвращает первую ошибку
func (f *PresentationFanout) Present(ctx context.Context, surface domain.TravelTimeSurface, p *domain.Presentation) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range f.sinks {
		s := s
		g.Go(func() error {
			return s.Present(gctx, surface, p)
		})
	}
	return g.Wait()
}

func (f *PresentationFanout) NotifyFailure(ctx context.Context, err error) {
	for _, s := range f.sinks {
		s.NotifyFailure(ctx, err)
	}
}
