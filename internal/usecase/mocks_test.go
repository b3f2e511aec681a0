package usecase_test

import (
	"context"
	"math"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/accessibility-microservice/internal/domain"
)

// MockSurfaceRepository is a mock of SurfaceRepository
type MockSurfaceRepository struct {
	mock.Mock
}

func (m *MockSurfaceRepository) Load(ctx context.Context, params domain.RequestParameters) (domain.TravelTimeSurface, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.TravelTimeSurface), args.Error(1)
}

// MockPopulationSource is a mock of PopulationSource
type MockPopulationSource struct {
	mock.Mock
}

func (m *MockPopulationSource) Fetch(ctx context.Context, spec domain.PopulationSpec) (*domain.Population, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Population), args.Error(1)
}

// MockPresentationSync is a mock of PresentationSync
type MockPresentationSync struct {
	mock.Mock
}

func (m *MockPresentationSync) ShowPopulation(ctx context.Context, pop *domain.Population) {
	m.Called(ctx, pop)
}

func (m *MockPresentationSync) SetRefreshEnabled(enabled bool) {
	m.Called(enabled)
}

func (m *MockPresentationSync) Present(ctx context.Context, surface domain.TravelTimeSurface, p *domain.Presentation) error {
	args := m.Called(ctx, surface, p)
	return args.Error(0)
}

func (m *MockPresentationSync) NotifyFailure(ctx context.Context, err error) {
	m.Called(ctx, err)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetPresentation(ctx context.Context) (*domain.Presentation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Presentation), args.Error(1)
}

func (m *MockCacheRepository) SetPresentation(ctx context.Context, p *domain.Presentation, ttl time.Duration) error {
	args := m.Called(ctx, p, ttl)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) ClaimStale(ctx context.Context, stream, group, consumer string, minIdle time.Duration, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, minIdle, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockHistoryRepository is a mock of HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) SavePresentation(ctx context.Context, p *domain.Presentation) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Presentation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Presentation), args.Error(1)
}

// staticPopulations - загруженные категории для контроллера
type staticPopulations []*domain.Population

func (s staticPopulations) Loaded() []*domain.Population {
	return s
}

// uniformSurface - сетка 10x10 над [43,44]x[1,2] с одинаковым значением
func uniformSurface(v float64) *domain.GridSurface {
	values := make([]float64, 100)
	for i := range values {
		values[i] = v
	}
	g, err := domain.NewGridSurface(domain.Coordinate{Lat: 43, Lon: 1}, 0.1, 0.1, 10, 10, values)
	if err != nil {
		panic(err)
	}
	return g
}

// rampSurface - значение ячейки растет с номером: row*10+col, умноженный на step.
// Ячейка (9, 9) недостижима.
func rampSurface(step float64) *domain.GridSurface {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i) * step
	}
	values[99] = math.NaN()
	g, err := domain.NewGridSurface(domain.Coordinate{Lat: 43, Lon: 1}, 0.1, 0.1, 10, 10, values)
	if err != nil {
		panic(err)
	}
	return g
}

// cell возвращает центр ячейки сетки
func cell(row, col int) domain.Coordinate {
	return domain.Coordinate{Lat: 43 + 0.1*float64(row) + 0.05, Lon: 1 + 0.1*float64(col) + 0.05}
}

func population(key string, coords ...domain.Coordinate) *domain.Population {
	pop := &domain.Population{Key: key, Name: key, Color: "#FC0"}
	for i, c := range coords {
		pop.Items = append(pop.Items, domain.PopulationItem{Location: c, Name: key + string(rune('a'+i))})
	}
	return pop
}
