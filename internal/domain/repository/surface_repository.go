package repository

import (
	"context"

	"github.com/accessibility-microservice/internal/domain"
)

// SurfaceRepository запрашивает поверхность у внешнего сервиса анализа.
// Каждый вызов - ровно один запрос, без кеширования.
type SurfaceRepository interface {
	Load(ctx context.Context, params domain.RequestParameters) (domain.TravelTimeSurface, error)
}
