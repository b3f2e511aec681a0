package repository

import (
	"context"

	"github.com/accessibility-microservice/internal/domain"
)

// PopulationSource загружает и разбирает источник объектов одной категории
type PopulationSource interface {
	Fetch(ctx context.Context, spec domain.PopulationSpec) (*domain.Population, error)
}
