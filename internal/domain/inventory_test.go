package domain

import (
	"testing"

	"fuelops/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduct(t *testing.T) {
	tests := []struct {
		name    string
		stock   string
		qty     string
		after   string
		applied string
		clamped bool
	}{
		{"within stock", "45000", "1000", "44000", "1000", false},
		{"exact stock", "500", "500", "0", "500", false},
		{"floors at zero", "500", "800", "0", "500", true},
		{"empty tank", "0", "10", "0", "0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := testStation(tt.stock, "60000", "10000").Inventory[0]
			adj, err := Deduct(&line, d(tt.qty))
			require.NoError(t, err)
			assert.True(t, line.CurrentStock.Equal(d(tt.after)), "stock %s", line.CurrentStock)
			assert.True(t, adj.Applied.Equal(d(tt.applied)))
			assert.Equal(t, tt.clamped, adj.Clamped)
			assert.True(t, adj.Before.Equal(d(tt.stock)))
			assert.True(t, adj.Unapplied().Equal(d(tt.qty).Sub(d(tt.applied))))
		})
	}
}

func TestReplenish(t *testing.T) {
	tests := []struct {
		name    string
		stock   string
		qty     string
		after   string
		clamped bool
	}{
		{"room available", "8000", "20000", "28000", false},
		{"caps at capacity", "45000", "33000", "60000", true},
		{"already full", "60000", "1", "60000", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := testStation(tt.stock, "60000", "10000").Inventory[0]
			adj, err := Replenish(&line, d(tt.qty))
			require.NoError(t, err)
			assert.True(t, line.CurrentStock.Equal(d(tt.after)), "stock %s", line.CurrentStock)
			assert.Equal(t, tt.clamped, adj.Clamped)
			assert.True(t, line.CurrentStock.LessThanOrEqual(line.Capacity))
		})
	}
}

func TestStockArithmeticRejectsBadQuantities(t *testing.T) {
	line := testStation("100", "1000", "10").Inventory[0]
	_, err := Deduct(&line, d("-1"))
	assert.ErrorIs(t, err, ErrValidation)
	_, err = Replenish(&line, d("0"))
	assert.ErrorIs(t, err, ErrValidation)
	assert.True(t, line.CurrentStock.Equal(d("100")))
}

func TestFindLine(t *testing.T) {
	s := testStation("100", "1000", "10")

	line, err := FindLine(s, model.FuelPMS)
	require.NoError(t, err)
	assert.Equal(t, model.FuelPMS, line.FuelType)

	_, err = FindLine(s, model.FuelDPK)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = FindLine(s, "")
	assert.ErrorIs(t, err, ErrValidation)
}
