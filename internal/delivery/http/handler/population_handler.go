package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/accessibility-microservice/internal/domain"
	"github.com/accessibility-microservice/internal/pkg/utils"
	"github.com/accessibility-microservice/internal/usecase"
	"github.com/accessibility-microservice/internal/usecase/dto"
)

// PopulationHandler - обработчик запросов по категориям объектов
type PopulationHandler struct {
	populations *usecase.PopulationSet
	params      *usecase.ParameterStore
	state       *usecase.PresentationState
	logger      *zap.Logger
}

// NewPopulationHandler - создание нового PopulationHandler
func NewPopulationHandler(
	populations *usecase.PopulationSet,
	params *usecase.ParameterStore,
	state *usecase.PresentationState,
	logger *zap.Logger,
) *PopulationHandler {
	return &PopulationHandler{
		populations: populations,
		params:      params,
		state:       state,
		logger:      logger,
	}
}

// ListPopulations godoc
// @Summary Список категорий и состояние их загрузки
// @Tags Populations
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.PopulationsResponse}
// @Router /api/v1/populations [get]
func (h *PopulationHandler) ListPopulations(c *fiber.Ctx) error {
	statuses := h.populations.Statuses()
	return utils.SendSuccess(c, dto.PopulationsResponse{Populations: statuses}, &utils.Meta{
		Total: len(statuses),
	})
}

// GetLayer godoc
// @Summary Слой категории в GeoJSON
// @Description Точки категории с расстоянием до точки отправления и значением поверхности последнего цикла
// @Tags Populations
// @Produce json
// @Param key path string true "Ключ категории"
// @Success 200 {object} map[string]interface{} "GeoJSON FeatureCollection"
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/populations/{key}.geojson [get]
func (h *PopulationHandler) GetLayer(c *fiber.Ctx) error {
	key := c.Params("key")

	pop, err := h.populations.Get(key)
	if err != nil {
		return utils.SendError(c, err)
	}

	origin := h.params.Snapshot().Origin
	var legend domain.Legend
	presentation, surface := h.state.Current()
	if presentation != nil {
		origin = presentation.Parameters.Origin
		legend = presentation.Legend
	}

	fc := dto.PopulationLayer(pop, origin, surface, legend)

	c.Set(fiber.HeaderContentType, "application/geo+json")
	return c.JSON(fc)
}

// RetryPopulation godoc
// @Summary Повторить загрузку категории
// @Description Доступно только для категорий, загрузка которых завершилась ошибкой
// @Tags Populations
// @Produce json
// @Param key path string true "Ключ категории"
// @Success 202 {object} utils.SuccessResponse{data=domain.PopulationStatus}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/populations/{key}/retry [post]
func (h *PopulationHandler) RetryPopulation(c *fiber.Ctx) error {
	key := c.Params("key")

	if _, err := h.populations.Retry(c.UserContext(), key); err != nil {
		return utils.SendError(c, err)
	}

	h.logger.Info("Population reload requested", zap.String("category", key))

	for _, s := range h.populations.Statuses() {
		if s.Key == key {
			return utils.SendStatus(c, fiber.StatusAccepted, s, nil)
		}
	}
	return utils.SendStatus(c, fiber.StatusAccepted, nil, nil)
}
