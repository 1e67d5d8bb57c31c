package domain

import (
	"fmt"
	"time"

	"fuelops/internal/model"

	"github.com/shopspring/decimal"
)

// EntryInput is the submitted form of a daily record.
// Quantity comes from the meters when either is set, else from QuantitySold.
type EntryInput struct {
	Date           string
	FuelType       string
	OpeningMeter   decimal.Decimal `validate:"gte=0"`
	ClosingMeter   decimal.Decimal `validate:"gte=0"`
	QuantitySold   decimal.Decimal `validate:"gte=0"`
	GeneratorHours decimal.Decimal `validate:"gte=0"`
	Payments       model.PaymentBreakdown
	Expenses       model.ExpenseBreakdown
}

// NewDailyEntry builds a PENDING record with its SUBMITTED trail entry.
// It returns ErrValidation without building anything on bad input.
func NewDailyEntry(station *model.Station, in EntryInput, actor Actor, now time.Time, minorUnits int32) (*model.DailyEntry, error) {
	if station == nil {
		return nil, fmt.Errorf("%w: station is required", ErrValidation)
	}
	if in.FuelType == "" {
		return nil, fmt.Errorf("%w: fuel type is required", ErrValidation)
	}
	if !model.IsValidFuelType(in.FuelType) {
		return nil, fmt.Errorf("%w: unknown fuel type %q", ErrValidation, in.FuelType)
	}
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}
	line := station.Line(in.FuelType)
	if line == nil {
		return nil, fmt.Errorf("%w: station %s does not sell %s", ErrValidation, station.Name, in.FuelType)
	}

	date := in.Date
	if date == "" {
		date = now.Format(model.DateLayout)
	} else if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	qty := in.QuantitySold
	if !in.OpeningMeter.IsZero() || !in.ClosingMeter.IsZero() {
		qty = in.ClosingMeter.Sub(in.OpeningMeter)
	}
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: invalid meter readings, quantity sold must be positive", ErrValidation)
	}

	entry := &model.DailyEntry{
		EntryDate:      date,
		StationID:      station.ID,
		StationName:    station.Name,
		FuelType:       in.FuelType,
		OpeningMeter:   in.OpeningMeter,
		ClosingMeter:   in.ClosingMeter,
		QuantitySold:   qty,
		Rate:           line.Rate,
		Payments:       in.Payments,
		Expenses:       in.Expenses,
		GeneratorHours: in.GeneratorHours,
		Status:         model.EntryPending,
		SubmittedBy:    actor.ID,
	}
	ApplyReconciliation(entry, minorUnits)
	entry.AuditTrail = []model.EntryAuditLog{{
		Seq:       1,
		Timestamp: now,
		UserID:    actor.ID,
		UserName:  actor.Name,
		Action:    model.EntryActionSubmitted,
		Details:   fmt.Sprintf("Daily record for %s", in.FuelType),
	}}
	return entry, nil
}
