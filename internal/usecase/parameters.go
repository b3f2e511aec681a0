package usecase

import (
	"sync"

	"github.com/accessibility-microservice/internal/domain"
	"github.com/accessibility-microservice/internal/pkg/errors"
)

// ParameterStore хранит текущие параметры поездки. Контроллер берет снимок в начале цикла.
type ParameterStore struct {
	mu     sync.RWMutex
	params domain.RequestParameters
}

func NewParameterStore(defaults domain.RequestParameters) *ParameterStore {
	return &ParameterStore{params: defaults}
}

// Snapshot возвращает копию текущих параметров
func (s *ParameterStore) Snapshot() domain.RequestParameters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// Update применяет патч и возвращает новые параметры
func (s *ParameterStore) Update(patch domain.ParametersPatch) (domain.RequestParameters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := patch.Apply(s.params)
	if !next.Origin.Valid() {
		return s.params, errors.ErrInvalidCoordinates
	}
	if next.MaxTimeSec < 0 || next.MaxWalkDistance < 0 || next.WalkSpeed < 0 {
		return s.params, errors.ErrInvalidParameters
	}

	s.params = next
	return next, nil
}
