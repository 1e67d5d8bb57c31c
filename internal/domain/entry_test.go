package domain

import (
	"errors"
	"testing"

	"fuelops/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDailyEntry(t *testing.T) {
	s := testStation("45000", "60000", "10000")
	actor := managerOf(s)

	entry, err := NewDailyEntry(s, EntryInput{
		Date:         "2024-03-10",
		FuelType:     model.FuelPMS,
		OpeningMeter: d("5000"),
		ClosingMeter: d("6000"),
		Payments:     model.PaymentBreakdown{Cash: d("650000")},
		Expenses:     model.ExpenseBreakdown{GeneratorDiesel: d("15000")},
	}, actor, testNow, DefaultMinorUnits)
	require.NoError(t, err)

	assert.Equal(t, model.EntryPending, entry.Status)
	assert.True(t, entry.QuantitySold.Equal(d("1000")))
	assert.True(t, entry.Rate.Equal(d("650")))
	assert.True(t, entry.Amount.Equal(d("650000")))
	assert.True(t, entry.ReconciliationDelta.IsZero())
	assert.True(t, entry.NetAmount.Equal(d("635000")))
	assert.Equal(t, s.Name, entry.StationName)
	require.Len(t, entry.AuditTrail, 1)
	assert.Equal(t, model.EntryActionSubmitted, entry.AuditTrail[0].Action)
	assert.Equal(t, "Daily record for PMS", entry.AuditTrail[0].Details)
}

func TestNewDailyEntryRejectsBadInput(t *testing.T) {
	s := testStation("45000", "60000", "10000")
	actor := managerOf(s)

	tests := []struct {
		name string
		in   EntryInput
	}{
		{"missing fuel", EntryInput{QuantitySold: d("10")}},
		{"unknown fuel", EntryInput{FuelType: "LPG", QuantitySold: d("10")}},
		{"fuel not sold at station", EntryInput{FuelType: model.FuelAGO, QuantitySold: d("10")}},
		{"closing below opening", EntryInput{FuelType: model.FuelPMS, OpeningMeter: d("6000"), ClosingMeter: d("5000")}},
		{"zero quantity", EntryInput{FuelType: model.FuelPMS}},
		{"negative payment", EntryInput{FuelType: model.FuelPMS, QuantitySold: d("10"), Payments: model.PaymentBreakdown{POS: d("-1")}}},
		{"bad date", EntryInput{FuelType: model.FuelPMS, QuantitySold: d("10"), Date: "10/03/2024"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := NewDailyEntry(s, tt.in, actor, testNow, DefaultMinorUnits)
			assert.Nil(t, entry)
			assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
		})
	}

	_, err := NewDailyEntry(nil, EntryInput{FuelType: model.FuelPMS, QuantitySold: d("1")}, actor, testNow, DefaultMinorUnits)
	assert.ErrorIs(t, err, ErrValidation)
}
