package usecase

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/accessibility-microservice/internal/domain"
	"github.com/accessibility-microservice/internal/domain/repository"
	"github.com/accessibility-microservice/internal/metrics"
	"github.com/accessibility-microservice/internal/pkg/errors"
)

// PopulationProvider отдает категории, загрузка которых завершена
type PopulationProvider interface {
	Loaded() []*domain.Population
}

// RefreshController - автомат Idle -> Loading -> Presenting -> Idle.
// Одновременно выполняется не более одного цикла, триггер вне Idle отбрасывается.
type RefreshController struct {
	params      *ParameterStore
	populations PopulationProvider
	surfaces    repository.SurfaceRepository
	scoring     *ScoringEngine
	sink        repository.PresentationSync
	logger      *zap.Logger

	mu    sync.Mutex
	state domain.RefreshState
	cycle uint64
}

func NewRefreshController(
	params *ParameterStore,
	populations PopulationProvider,
	surfaces repository.SurfaceRepository,
	scoring *ScoringEngine,
	sink repository.PresentationSync,
	logger *zap.Logger,
) *RefreshController {
	return &RefreshController{
		params:      params,
		populations: populations,
		surfaces:    surfaces,
		scoring:     scoring,
		sink:        sink,
		logger:      logger,
		state:       domain.RefreshIdle,
	}
}

// Start включает триггер и выполняет первое обновление
func (c *RefreshController) Start(ctx context.Context) error {
	c.mu.Lock()
	c.sink.SetRefreshEnabled(c.state == domain.RefreshIdle)
	c.mu.Unlock()

	_, err := c.Trigger(ctx)
	return err
}

// Trigger запускает цикл обновления с текущими параметрами
func (c *RefreshController) Trigger(ctx context.Context) (*domain.Presentation, error) {
	return c.TriggerWith(ctx, nil)
}

// TriggerWith применяет патч параметров и запускает цикл. Патч применяется только
// если цикл действительно стартует. Флаг триггера sink меняется под той же
// блокировкой, что и состояние автомата.
func (c *RefreshController) TriggerWith(ctx context.Context, patch *domain.ParametersPatch) (*domain.Presentation, error) {
	token, params, err := c.begin(patch)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer c.finish(start)

	policy := domain.PolicyFor(params)

	c.logger.Info("Refresh started",
		zap.Uint64("cycle", token),
		zap.String("metric", string(params.MetricType)),
		zap.String("origin", params.Origin.String()))

	surface, err := c.surfaces.Load(ctx, params)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("surface_unavailable").Inc()
		c.logger.Error("Refresh failed",
			zap.Uint64("cycle", token),
			zap.Error(err))
		c.sink.NotifyFailure(ctx, err)
		return nil, err
	}

	c.setState(domain.RefreshPresenting)

	presentation := c.present(token, params, policy, surface)

	if err := c.sink.Present(ctx, surface, presentation); err != nil {
		c.logger.Warn("Presentation sink failed",
			zap.Uint64("cycle", token),
			zap.Error(err))
	}

	metrics.RefreshTotal.WithLabelValues("success").Inc()
	c.logger.Info("Refresh completed",
		zap.Uint64("cycle", token),
		zap.Int("scores", len(presentation.Scores)),
		zap.Duration("duration", time.Since(start)))

	return presentation, nil
}

// present считает две оценки для каждой загруженной категории
func (c *RefreshController) present(
	token uint64,
	params domain.RequestParameters,
	policy domain.MetricPolicy,
	surface domain.TravelTimeSurface,
) *domain.Presentation {
	pops := c.populations.Loaded()
	scores := make([]domain.ScoreResult, 0, 2*len(pops))
	for _, pop := range pops {
		for i, cutoff := range policy.Cutoffs {
			band := domain.Band(i + 1)
			result := c.scoring.ScorePopulation(surface, pop, band, cutoff, 1.0)
			scores = append(scores, result)
			metrics.CategoryScore.WithLabelValues(pop.Key, strconv.Itoa(int(band))).Set(result.Score)
		}
	}

	return &domain.Presentation{
		ID:         uuid.New(),
		Cycle:      token,
		Parameters: params,
		Legend: domain.Legend{
			Max:        policy.ScaleMax,
			MetricType: params.MetricType,
		},
		Labels:      policy.Labels,
		Scores:      scores,
		CompletedAt: time.Now().UTC(),
	}
}

func (c *RefreshController) begin(patch *domain.ParametersPatch) (uint64, domain.RequestParameters, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.RefreshIdle {
		metrics.RefreshDroppedTotal.Inc()
		c.logger.Debug("Refresh trigger dropped", zap.String("state", string(c.state)))
		return 0, domain.RequestParameters{}, errors.ErrRefreshInProgress
	}

	var params domain.RequestParameters
	if patch != nil {
		updated, err := c.params.Update(*patch)
		if err != nil {
			return 0, domain.RequestParameters{}, err
		}
		params = updated
	} else {
		params = c.params.Snapshot()
	}

	c.cycle++
	c.state = domain.RefreshLoading
	c.sink.SetRefreshEnabled(false)
	return c.cycle, params, nil
}

func (c *RefreshController) setState(state domain.RefreshState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

// finish возвращает автомат в Idle на любом пути выхода, включая панику.
// Флаг включается до снятия блокировки: следующий begin его уже не обгонит.
func (c *RefreshController) finish(start time.Time) {
	c.mu.Lock()
	c.state = domain.RefreshIdle
	c.sink.SetRefreshEnabled(true)
	c.mu.Unlock()

	metrics.RefreshDurationMs.Observe(float64(time.Since(start).Milliseconds()))
}

// State - текущее состояние автомата
func (c *RefreshController) State() domain.RefreshState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Cycle - номер последнего запущенного цикла
func (c *RefreshController) Cycle() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycle
}
