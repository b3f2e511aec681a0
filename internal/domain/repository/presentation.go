package repository

import (
	"context"

	"github.com/accessibility-microservice/internal/domain"
)

// PopulationObserver получает категории по мере завершения их загрузки
type PopulationObserver interface {
	ShowPopulation(ctx context.Context, pop *domain.Population)
}

// PresentationSync - приемник результатов обновления (оверлей, легенда, оценки)
type PresentationSync interface {
	PopulationObserver

	// SetRefreshEnabled включает или выключает триггер обновления
	SetRefreshEnabled(enabled bool)

	// Present публикует новую поверхность и полностью пересчитанные оценки
	Present(ctx context.Context, surface domain.TravelTimeSurface, p *domain.Presentation) error

	// NotifyFailure сообщает пользователю об ошибке цикла обновления
	NotifyFailure(ctx context.Context, err error)
}
