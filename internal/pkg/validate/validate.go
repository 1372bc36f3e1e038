// Package validate adapts ozzo-validation results to domain errors.
package validate

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"textforge/internal/domain/entity"
)

// First reduces the result of validation.ValidateStruct to one error,
// checking fields in order. Domain sentinels returned by rules pass through
// unchanged; other rule failures become *entity.ValidationError.
func First(err error, order ...string) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	for _, field := range order {
		if fe, ok := errs[field]; ok && fe != nil {
			return fieldError(field, fe)
		}
	}
	for field, fe := range errs {
		if fe != nil {
			return fieldError(field, fe)
		}
	}
	return nil
}

func fieldError(field string, err error) error {
	var ve validation.Error
	if errors.As(err, &ve) {
		return &entity.ValidationError{Field: field, Message: ve.Error()}
	}
	return err
}
