package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/accessibility-microservice/internal/domain/repository"
	"github.com/accessibility-microservice/internal/pkg/errors"
	"github.com/accessibility-microservice/internal/pkg/utils"
	"github.com/accessibility-microservice/internal/pkg/validator"
	"github.com/accessibility-microservice/internal/usecase/dto"
)

const defaultHistoryLimit = 20

// HistoryHandler отдает сохраненные результаты обновлений
type HistoryHandler struct {
	history repository.HistoryRepository
	logger  *zap.Logger
}

// NewHistoryHandler создает новый экземпляр HistoryHandler
func NewHistoryHandler(history repository.HistoryRepository, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

// ListHistory godoc
// @Summary История обновлений
// @Tags History
// @Produce json
// @Param limit query int false "Количество записей" default(20)
// @Success 200 {object} utils.SuccessResponse{data=dto.HistoryResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/history [get]
func (h *HistoryHandler) ListHistory(c *fiber.Ctx) error {
	req := dto.HistoryRequest{Limit: c.QueryInt("limit", defaultHistoryLimit)}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, invalidRequest(err))
	}

	items, err := h.history.ListRecent(c.UserContext(), req.Limit)
	if err != nil {
		h.logger.Error("Failed to list history", zap.Error(err))
		return utils.SendError(c, errors.ErrDatabaseError)
	}

	return utils.SendSuccess(c, dto.HistoryResponse{Presentations: items}, &utils.Meta{
		Total: len(items),
		Limit: req.Limit,
	})
}
