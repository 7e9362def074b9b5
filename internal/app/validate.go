package app

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"quizmania-service/internal/domain"
)

var validate = validator.New()

// validateStruct runs struct-tag validation and reports failures as invalid input.
func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
