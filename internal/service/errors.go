package service

import (
	"fmt"

	"fuelops/internal/domain"
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}
