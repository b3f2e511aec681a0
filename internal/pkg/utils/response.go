package utils

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/accessibility-microservice/internal/pkg/errors"
)

// SuccessResponse - конверт успешного ответа API
type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

// ErrorResponse - конверт ошибки API
type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

type Meta struct {
	Total    int     `json:"total,omitempty"`
	Limit    int     `json:"limit,omitempty"`
	TimeMSec float64 `json:"time_ms,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return SendStatus(c, fiber.StatusOK, data, meta)
}

// SendStatus - успешный ответ с явным кодом (например 202 для перезагрузки категории)
func SendStatus(c *fiber.Ctx, status int, data interface{}, meta *Meta) error {
	return c.Status(status).JSON(SuccessResponse{Data: data, Meta: meta})
}

// SendError пишет AppError как есть. Ошибки fiber (404 маршрута, 405, 413)
// сохраняют свой статус, остальное становится INTERNAL_SERVER_ERROR.
func SendError(c *fiber.Ctx, err error) error {
	appErr, ok := errors.As(err)
	if !ok {
		var fe *fiber.Error
		if stderrors.As(err, &fe) {
			appErr = errors.New(statusCode(fe.Code), fe.Message, fe.Code)
		} else {
			appErr = errors.ErrInternalServer
		}
	}
	return c.Status(appErr.StatusCode).JSON(ErrorResponse{Error: appErr})
}

// statusCode: 404 -> NOT_FOUND, 405 -> METHOD_NOT_ALLOWED
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return errors.ErrInternalServer.Code
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
