package usecase

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/accessibility-microservice/internal/domain"
	"github.com/accessibility-microservice/internal/domain/repository"
	"github.com/accessibility-microservice/internal/metrics"
	"github.com/accessibility-microservice/internal/pkg/errors"
)

// PendingLoad - незавершенная загрузка категории
type PendingLoad struct {
	done chan struct{}
	pop  *domain.Population
	err  error
}

// Done закрывается по завершении загрузки
func (l *PendingLoad) Done() <-chan struct{} {
	return l.done
}

// Wait ждет завершения загрузки или отмены ctx
func (l *PendingLoad) Wait(ctx context.Context) (*domain.Population, error) {
	select {
	case <-l.done:
		return l.pop, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type populationEntry struct {
	spec  domain.PopulationSpec
	state domain.PopulationLoadState
	pop   *domain.Population
	err   error
	load  *PendingLoad
}

// PopulationSet владеет списком категорий и их объектами.
// Категории загружаются независимо, ошибка одной не влияет на остальные.
type PopulationSet struct {
	source   repository.PopulationSource
	observer repository.PopulationObserver
	logger   *zap.Logger

	mu      sync.RWMutex
	order   []string
	entries map[string]*populationEntry
}

func NewPopulationSet(
	source repository.PopulationSource,
	observer repository.PopulationObserver,
	logger *zap.Logger,
) *PopulationSet {
	return &PopulationSet{
		source:   source,
		observer: observer,
		logger:   logger,
		entries:  make(map[string]*populationEntry),
	}
}

// Register запускает асинхронную загрузку категории
func (s *PopulationSet) Register(ctx context.Context, spec domain.PopulationSpec) (*PendingLoad, error) {
	if spec.Key == "" {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "population key is required",
		})
	}

	s.mu.Lock()
	if _, exists := s.entries[spec.Key]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("population %q already registered", spec.Key)
	}
	entry := &populationEntry{spec: spec}
	s.entries[spec.Key] = entry
	s.order = append(s.order, spec.Key)
	load := s.startLocked(ctx, entry)
	s.mu.Unlock()

	return load, nil
}

// Retry перезапускает загрузку категории, завершившейся ошибкой
func (s *PopulationSet) Retry(ctx context.Context, key string) (*PendingLoad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, errors.ErrPopulationNotFound
	}
	if entry.state != domain.PopulationFailed {
		return nil, errors.ErrPopulationNotFailed.WithDetails(map[string]interface{}{
			"key":   key,
			"state": string(entry.state),
		})
	}

	s.logger.Info("Retrying population load", zap.String("category", key))
	return s.startLocked(ctx, entry), nil
}

func (s *PopulationSet) startLocked(ctx context.Context, entry *populationEntry) *PendingLoad {
	load := &PendingLoad{done: make(chan struct{})}
	entry.state = domain.PopulationPending
	entry.err = nil
	entry.load = load

	// загрузка переживает запрос, который ее запустил
	ctx = context.WithoutCancel(ctx)
	go s.run(ctx, entry.spec, load)

	return load
}

func (s *PopulationSet) run(ctx context.Context, spec domain.PopulationSpec, load *PendingLoad) {
	pop, err := s.source.Fetch(ctx, spec)
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", errors.ErrPopulationLoad, spec.Key, err)
	}

	s.mu.Lock()
	entry := s.entries[spec.Key]
	if entry.load == load {
		if err != nil {
			entry.state = domain.PopulationFailed
			entry.err = err
			entry.pop = nil
		} else {
			entry.state = domain.PopulationLoaded
			entry.pop = pop
		}
	}
	s.mu.Unlock()

	load.pop, load.err = pop, err
	defer close(load.done)

	if err != nil {
		metrics.PopulationLoadsTotal.WithLabelValues(spec.Key, "failed").Inc()
		s.logger.Error("Population load failed",
			zap.String("category", spec.Key),
			zap.String("source", spec.Source),
			zap.Error(err))
		return
	}

	metrics.PopulationLoadsTotal.WithLabelValues(spec.Key, "loaded").Inc()
	s.logger.Info("Population loaded",
		zap.String("category", spec.Key),
		zap.Int("items", pop.Size()))

	if s.observer != nil {
		s.observer.ShowPopulation(ctx, pop)
	}
}

// Loaded возвращает полностью загруженные категории в порядке регистрации.
// Незавершенные и неудачные загрузки пропускаются.
func (s *PopulationSet) Loaded() []*domain.Population {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Population, 0, len(s.order))
	for _, key := range s.order {
		if e := s.entries[key]; e.state == domain.PopulationLoaded {
			result = append(result, e.pop)
		}
	}
	return result
}

// Get возвращает загруженную категорию
func (s *PopulationSet) Get(key string) (*domain.Population, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, errors.ErrPopulationNotFound
	}
	switch e.state {
	case domain.PopulationLoaded:
		return e.pop, nil
	case domain.PopulationFailed:
		return nil, e.err
	default:
		return nil, errors.ErrPopulationNotFound.WithDetails(map[string]interface{}{
			"key":   key,
			"state": string(e.state),
		})
	}
}

// Statuses - состояние всех категорий в порядке регистрации
func (s *PopulationSet) Statuses() []domain.PopulationStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.PopulationStatus, 0, len(s.order))
	for _, key := range s.order {
		e := s.entries[key]
		st := domain.PopulationStatus{
			Key:   e.spec.Key,
			Name:  e.spec.Name,
			Color: e.spec.Color,
			State: e.state,
			Size:  e.pop.Size(),
		}
		if e.err != nil {
			st.Error = e.err.Error()
		}
		result = append(result, st)
	}
	return result
}
