package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/accessibility-microservice/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("metric_type", validateMetricType)
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// validateMetricType допускает пустое значение или один из известных типов метрики
func validateMetricType(fl validator.FieldLevel) bool {
	v := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
	switch domain.MetricType(v) {
	case "", domain.MetricBoardings, domain.MetricWalkDistance, domain.MetricTravelTime:
		return true
	}
	return false
}
