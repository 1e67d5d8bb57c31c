// Package seed holds the demo identities and the initial station network
// used when no persisted state exists.
package seed

import (
	"fuelops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultRate is the pump price applied to seeded lines.
var DefaultRate = decimal.NewFromInt(650)

// Defaults for stations created without explicit figures.
var (
	DefaultCapacity  = decimal.NewFromInt(50000)
	DefaultThreshold = decimal.NewFromInt(10000)
)

var namespace = uuid.MustParse("6f1c1f0e-3b0a-4f43-9a55-2d1f0c7f5e21")

// StationID is the stable id of the seeded station with the given code.
func StationID(code string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte("station:"+code))
}

// UserID is the stable id of the seeded user with the given code.
func UserID(code string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte("user:"+code))
}

// Users returns the demo identities.
func Users() []model.User {
	s1 := StationID("s1")
	s2 := StationID("s2")
	return []model.User{
		{ID: UserID("u1"), Code: "u1", Name: "John Admin", Email: "admin@expanse.com", Role: model.RoleAdmin},
		{ID: UserID("u2"), Code: "u2", Name: "Sarah CEO", Email: "ceo@expanse.com", Role: model.RoleCEO},
		{ID: UserID("u3"), Code: "u3", Name: "Mark Accountant", Email: "mark@expanse.com", Role: model.RoleAccountant},
		{ID: UserID("u4"), Code: "u4", Name: "David Manager", Email: "david@expanse.com", Role: model.RoleStationManager, StationID: &s1},
		{ID: UserID("u5"), Code: "u5", Name: "Alice Manager", Email: "alice@expanse.com", Role: model.RoleStationManager, StationID: &s2},
	}
}

// Stations returns the initial station network, one PMS line each.
func Stations() []model.Station {
	mk := func(code, name, location, image string, stock, capacity int64) model.Station {
		id := StationID(code)
		return model.Station{
			ID:          id,
			Code:        code,
			Name:        name,
			Location:    location,
			ImageURL:    image,
			HealthScore: 100,
			Inventory: []model.FuelLine{{
				ID:                uuid.NewSHA1(namespace, []byte("line:"+code+":"+model.FuelPMS)),
				StationID:         id,
				FuelType:          model.FuelPMS,
				CurrentStock:      decimal.NewFromInt(stock),
				Capacity:          decimal.NewFromInt(capacity),
				Rate:              DefaultRate,
				LowStockThreshold: DefaultThreshold,
			}},
		}
	}
	return []model.Station{
		mk("s1", "Expanse Station - Lagos", "Lekki Phase 1",
			"https://images.unsplash.com/photo-1563906267088-b029e7101114?q=80&w=800&auto=format&fit=crop", 45000, 60000),
		mk("s2", "Expanse Station - Abuja", "Maitama District",
			"https://images.unsplash.com/photo-1527018601619-a508a2be00cd?q=80&w=800&auto=format&fit=crop", 12000, 50000),
		mk("s3", "Expanse Station - Port Harcourt", "GRA Phase 2",
			"https://images.unsplash.com/photo-1567113463300-102550693930?q=80&w=800&auto=format&fit=crop", 8000, 50000),
	}
}
