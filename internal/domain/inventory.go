package domain

import (
	"fmt"

	"fuelops/internal/model"

	"github.com/shopspring/decimal"
)

// Adjustment describes one stock mutation. Clamped is set when the
// applied quantity differs from the requested one.
type Adjustment struct {
	Requested decimal.Decimal
	Applied   decimal.Decimal
	Before    decimal.Decimal
	After     decimal.Decimal
	Clamped   bool
}

// Unapplied is the part of the request that could not be applied.
func (a Adjustment) Unapplied() decimal.Decimal {
	return a.Requested.Sub(a.Applied)
}

// FindLine returns the station's line for fuelType or ErrNotFound.
func FindLine(station *model.Station, fuelType string) (*model.FuelLine, error) {
	if fuelType == "" {
		return nil, fmt.Errorf("%w: fuel type is required", ErrValidation)
	}
	line := station.Line(fuelType)
	if line == nil {
		return nil, fmt.Errorf("%w: station %s has no %s line", ErrNotFound, station.Name, fuelType)
	}
	return line, nil
}

// Deduct removes qty from the line, flooring stock at zero.
func Deduct(line *model.FuelLine, qty decimal.Decimal) (Adjustment, error) {
	if qty.IsNegative() {
		return Adjustment{}, fmt.Errorf("%w: deduction must not be negative", ErrValidation)
	}
	before := line.CurrentStock
	applied := decimal.Min(qty, before)
	if applied.IsNegative() {
		applied = decimal.Zero
	}
	line.CurrentStock = before.Sub(applied)
	return Adjustment{
		Requested: qty,
		Applied:   applied,
		Before:    before,
		After:     line.CurrentStock,
		Clamped:   !applied.Equal(qty),
	}, nil
}

// Replenish adds qty to the line, capping stock at capacity.
func Replenish(line *model.FuelLine, qty decimal.Decimal) (Adjustment, error) {
	if !qty.IsPositive() {
		return Adjustment{}, fmt.Errorf("%w: purchase quantity must be positive", ErrValidation)
	}
	before := line.CurrentStock
	room := line.Capacity.Sub(before)
	if room.IsNegative() {
		room = decimal.Zero
	}
	applied := decimal.Min(qty, room)
	line.CurrentStock = before.Add(applied)
	return Adjustment{
		Requested: qty,
		Applied:   applied,
		Before:    before,
		After:     line.CurrentStock,
		Clamped:   !applied.Equal(qty),
	}, nil
}
