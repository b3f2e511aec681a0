package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/accessibility-microservice/internal/domain"
	"github.com/accessibility-microservice/internal/domain/repository"
	"github.com/accessibility-microservice/internal/pkg/errors"
	"github.com/accessibility-microservice/internal/pkg/utils"
	"github.com/accessibility-microservice/internal/pkg/validator"
	"github.com/accessibility-microservice/internal/usecase"
	"github.com/accessibility-microservice/internal/usecase/dto"
)

const (
	scoresSourceMemory = "memory"
	scoresSourceCache  = "cache"

	defaultLegendStops = 10
)

// RefreshHandler - обработчик запросов на обновление и чтения результатов
type RefreshHandler struct {
	controller *usecase.RefreshController
	params     *usecase.ParameterStore
	state      *usecase.PresentationState
	cache      repository.CacheRepository // может быть nil
	logger     *zap.Logger
}

// NewRefreshHandler - создание нового RefreshHandler
func NewRefreshHandler(
	controller *usecase.RefreshController,
	params *usecase.ParameterStore,
	state *usecase.PresentationState,
	cache repository.CacheRepository,
	logger *zap.Logger,
) *RefreshHandler {
	return &RefreshHandler{
		controller: controller,
		params:     params,
		state:      state,
		cache:      cache,
		logger:     logger,
	}
}

// Refresh godoc
// @Summary Запустить цикл обновления
// @Description Применяет переданные параметры и пересчитывает поверхность и оценки. Если цикл уже выполняется, запрос отклоняется с 409.
// @Tags Refresh
// @Accept json
// @Produce json
// @Param request body dto.RefreshRequest false "Изменения параметров"
// @Success 200 {object} utils.SuccessResponse{data=dto.ScoresResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/refresh [post]
func (h *RefreshHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, invalidBody(err))
		}
		if err := validator.Validate(&req); err != nil {
			return utils.SendError(c, invalidRequest(err))
		}
	}

	start := time.Now()

	var (
		presentation *domain.Presentation
		err          error
	)
	if req.IsEmpty() {
		presentation, err = h.controller.Trigger(c.UserContext())
	} else {
		patch := req.ToPatch()
		presentation, err = h.controller.TriggerWith(c.UserContext(), &patch)
	}
	if err != nil {
		h.logger.Warn("Refresh failed", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.NewScoresResponse(presentation, scoresSourceMemory), &utils.Meta{
		Total:    len(presentation.Scores),
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// GetParameters godoc
// @Summary Текущие параметры поездки
// @Tags Parameters
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=domain.RequestParameters}
// @Router /api/v1/parameters [get]
func (h *RefreshHandler) GetParameters(c *fiber.Ctx) error {
	return utils.SendSuccess(c, h.params.Snapshot(), nil)
}

// UpdateParameters godoc
// @Summary Изменить параметры поездки
// @Description Изменения применяются следующим циклом обновления
// @Tags Parameters
// @Accept json
// @Produce json
// @Param request body dto.ParametersRequest true "Изменения параметров"
// @Success 200 {object} utils.SuccessResponse{data=domain.RequestParameters}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/parameters [put]
func (h *RefreshHandler) UpdateParameters(c *fiber.Ctx) error {
	var req dto.ParametersRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, invalidBody(err))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, invalidRequest(err))
	}

	params, err := h.params.Update(req.ToPatch())
	if err != nil {
		return utils.SendError(c, err)
	}

	h.logger.Info("Parameters updated",
		zap.String("metric", string(params.MetricType)),
		zap.String("origin", params.Origin.String()),
	)
	return utils.SendSuccess(c, params, nil)
}

// GetState godoc
// @Summary Состояние контроллера обновления
// @Tags Refresh
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.StateResponse}
// @Router /api/v1/state [get]
func (h *RefreshHandler) GetState(c *fiber.Ctx) error {
	resp := dto.StateResponse{
		State:          h.controller.State(),
		RefreshEnabled: h.state.RefreshEnabled(),
		Cycle:          h.controller.Cycle(),
	}
	if msg, at := h.state.LastFailure(); msg != "" {
		resp.LastError = msg
		resp.LastErrorAt = &at
	}
	return utils.SendSuccess(c, resp, nil)
}

// GetScores godoc
// @Summary Последние оценки доступности
// @Description Возвращает последний опубликованный результат. После рестарта результат берется из Redis, если он там есть.
// @Tags Refresh
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ScoresResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/scores [get]
func (h *RefreshHandler) GetScores(c *fiber.Ctx) error {
	p, source, err := h.latest(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.NewScoresResponse(p, source), &utils.Meta{Total: len(p.Scores)})
}

// GetLegend godoc
// @Summary Легенда поверхности
// @Tags Refresh
// @Produce json
// @Param stops query int false "Количество ступеней градиента" default(10)
// @Success 200 {object} utils.SuccessResponse{data=dto.LegendResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/legend [get]
func (h *RefreshHandler) GetLegend(c *fiber.Ctx) error {
	stops := c.QueryInt("stops", defaultLegendStops)
	if stops < 1 || stops > 100 {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"stops": "must be between 1 and 100",
		}))
	}

	p, _, err := h.latest(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.NewLegendResponse(p, stops), nil)
}

func (h *RefreshHandler) latest(c *fiber.Ctx) (*domain.Presentation, string, error) {
	if p, _ := h.state.Current(); p != nil {
		return p, scoresSourceMemory, nil
	}
	if h.cache != nil {
		p, err := h.cache.GetPresentation(c.UserContext())
		if err != nil {
			h.logger.Warn("Failed to read cached presentation", zap.Error(err))
		}
		if p != nil {
			return p, scoresSourceCache, nil
		}
	}
	return nil, "", errors.ErrNoPresentation
}
