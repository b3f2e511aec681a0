package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/accessibility-microservice/internal/domain"
)

// PresentationState - текущее состояние отображения в памяти процесса:
// оверлей, легенда, оценки, флаг триггера и слои категорий. Читается HTTP-обработчиками.
type PresentationState struct {
	mu             sync.RWMutex
	refreshEnabled bool
	surface        domain.TravelTimeSurface
	presentation   *domain.Presentation
	failure        error
	failedAt       time.Time
	layers         map[string]*domain.Population
	layerOrder     []string
}

func NewPresentationState() *PresentationState {
	return &PresentationState{
		layers: make(map[string]*domain.Population),
	}
}

// ShowPopulation добавляет или заменяет слой категории
func (s *PresentationState) ShowPopulation(_ context.Context, pop *domain.Population) {
	if pop == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.layers[pop.Key]; !ok {
		s.layerOrder = append(s.layerOrder, pop.Key)
	}
	s.layers[pop.Key] = pop
}

func (s *PresentationState) SetRefreshEnabled(enabled bool) {
	s.mu.Lock()
	s.refreshEnabled = enabled
	s.mu.Unlock()
}

// Present заменяет поверхность и оценки целиком. Результат более старого цикла игнорируется.
func (s *PresentationState) Present(_ context.Context, surface domain.TravelTimeSurface, p *domain.Presentation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presentation != nil && p.Cycle < s.presentation.Cycle {
		return nil
	}
	s.surface = surface
	s.presentation = p
	s.failure = nil
	s.failedAt = time.Time{}
	return nil
}

func (s *PresentationState) NotifyFailure(_ context.Context, err error) {
	s.mu.Lock()
	s.failure = err
	s.failedAt = time.Now().UTC()
	s.mu.Unlock()
}

func (s *PresentationState) RefreshEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshEnabled
}

// Current возвращает последний опубликованный результат, nil до первого успешного цикла
func (s *PresentationState) Current() (*domain.Presentation, domain.TravelTimeSurface) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presentation, s.surface
}

// LastFailure - ошибка последнего неудачного цикла, если после него не было успешного
func (s *PresentationState) LastFailure() (string, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failure == nil {
		return "", time.Time{}
	}
	return s.failure.Error(), s.failedAt
}

func (s *PresentationState) Layer(key string) (*domain.Population, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pop, ok := s.layers[key]
	return pop, ok
}

// Layers - слои в порядке появления
func (s *PresentationState) Layers() []*domain.Population {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*domain.Population, 0, len(s.layerOrder))
	for _, key := range s.layerOrder {
		result = append(result, s.layers[key])
	}
	return result
}
