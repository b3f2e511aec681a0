package repository

import (
	"context"

	"github.com/accessibility-microservice/internal/domain"
)

// HistoryRepository хранит историю результатов обновления
type HistoryRepository interface {
	SavePresentation(ctx context.Context, p *domain.Presentation) error
	ListRecent(ctx context.Context, limit int) ([]*domain.Presentation, error)
}
