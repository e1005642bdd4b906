// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrValidation          = errors.New("validation failed")
	ErrAccessDenied        = errors.New("access denied")
)

// validationError wraps err so that callers can match both ErrValidation and
// the underlying validator.ValidationErrors.
func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// storeError maps gorm errors onto the service sentinels.
func storeError(what string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w: %w", what, ErrConstraintViolation, err)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

func actorRef(actorID uint) *uint {
	if actorID == 0 {
		return nil
	}
	return &actorID
}
