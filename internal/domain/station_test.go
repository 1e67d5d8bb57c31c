package domain

import (
	"testing"

	"fuelops/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateLines(t *testing.T) {
	good := model.FuelLine{
		FuelType:          model.FuelPMS,
		CurrentStock:      d("100"),
		Capacity:          d("1000"),
		Rate:              d("650"),
		LowStockThreshold: d("50"),
	}

	tests := []struct {
		name    string
		mutate  func(l *model.FuelLine)
		wantErr bool
	}{
		{"valid", func(l *model.FuelLine) {}, false},
		{"stock equals capacity", func(l *model.FuelLine) { l.CurrentStock = d("1000") }, false},
		{"unknown fuel", func(l *model.FuelLine) { l.FuelType = "LPG" }, true},
		{"zero capacity", func(l *model.FuelLine) { l.Capacity = decimal.Zero }, true},
		{"zero rate", func(l *model.FuelLine) { l.Rate = decimal.Zero }, true},
		{"negative threshold", func(l *model.FuelLine) { l.LowStockThreshold = d("-1") }, true},
		{"stock above capacity", func(l *model.FuelLine) { l.CurrentStock = d("1000.01") }, true},
		{"negative stock", func(l *model.FuelLine) { l.CurrentStock = d("-1") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := good
			tt.mutate(&l)
			err := ValidateLines([]model.FuelLine{l})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("duplicate fuel type", func(t *testing.T) {
		err := ValidateLines([]model.FuelLine{good, good})
		assert.ErrorIs(t, err, ErrValidation)
	})
}
