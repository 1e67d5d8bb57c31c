package domain

import (
	"time"

	"fuelops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func testStation(stock, capacity, threshold string) *model.Station {
	id := uuid.New()
	return &model.Station{
		ID:   id,
		Code: "s1",
		Name: "Expanse Station - Lagos",
		Inventory: []model.FuelLine{{
			ID:                uuid.New(),
			StationID:         id,
			FuelType:          model.FuelPMS,
			CurrentStock:      d(stock),
			Capacity:          d(capacity),
			Rate:              d("650"),
			LowStockThreshold: d(threshold),
		}},
	}
}

func managerOf(s *model.Station) Actor {
	return Actor{ID: uuid.New(), Name: "David Manager", Role: model.RoleStationManager, StationID: &s.ID}
}

func accountant() Actor {
	return Actor{ID: uuid.New(), Name: "Mark Accountant", Role: model.RoleAccountant}
}
