package domain

import (
	"fmt"

	"fuelops/internal/model"
)

// ValidateLine checks a single fuel line against the stock invariants.
func ValidateLine(l model.FuelLine) error {
	if !model.IsValidFuelType(l.FuelType) {
		return fmt.Errorf("%w: unsupported fuel type %q", ErrValidation, l.FuelType)
	}
	if !l.Capacity.IsPositive() {
		return fmt.Errorf("%w: %s capacity must be positive", ErrValidation, l.FuelType)
	}
	if !l.Rate.IsPositive() {
		return fmt.Errorf("%w: %s rate must be positive", ErrValidation, l.FuelType)
	}
	if l.LowStockThreshold.IsNegative() {
		return fmt.Errorf("%w: %s low stock threshold must not be negative", ErrValidation, l.FuelType)
	}
	if l.CurrentStock.IsNegative() || l.CurrentStock.GreaterThan(l.Capacity) {
		return fmt.Errorf("%w: %s stock must be between 0 and capacity", ErrValidation, l.FuelType)
	}
	return nil
}

// ValidateLines validates every line and rejects duplicate fuel types.
func ValidateLines(lines []model.FuelLine) error {
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if err := ValidateLine(l); err != nil {
			return err
		}
		if seen[l.FuelType] {
			return fmt.Errorf("%w: duplicate %s line", ErrValidation, l.FuelType)
		}
		seen[l.FuelType] = true
	}
	return nil
}
