package handler

import (
	stderrors "errors"

	"github.com/go-playground/validator/v10"

	"github.com/accessibility-microservice/internal/pkg/errors"
)

func invalidBody(err error) error {
	return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
		"body": err.Error(),
	})
}

// invalidRequest переводит ошибки валидатора в INVALID_REQUEST с полями
func invalidRequest(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return invalidBody(err)
	}

	details := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return errors.ErrInvalidRequest.WithDetails(details)
}
