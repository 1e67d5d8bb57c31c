package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Fuel types
const (
	FuelPMS = "PMS"
	FuelAGO = "AGO"
	FuelDPK = "DPK"
)

// FuelTypes lists the supported products in display order.
var FuelTypes = []string{FuelPMS, FuelAGO, FuelDPK}

// IsValidFuelType reports whether f is a supported product.
func IsValidFuelType(f string) bool {
	for _, t := range FuelTypes {
		if t == f {
			return true
		}
	}
	return false
}

// Station is a physical retail site holding one FuelLine per product.
type Station struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Location    string         `gorm:"type:varchar(255)" json:"location"`
	ImageURL    string         `gorm:"type:varchar(500)" json:"image_url"`
	HealthScore int            `gorm:"type:int;default:100" json:"health_score"`
	Inventory   []FuelLine     `gorm:"foreignKey:StationID;constraint:OnDelete:CASCADE" json:"inventory"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Station) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// Line returns the station's line for fuelType, or nil.
func (s *Station) Line(fuelType string) *FuelLine {
	for i := range s.Inventory {
		if s.Inventory[i].FuelType == fuelType {
			return &s.Inventory[i]
		}
	}
	return nil
}

// FuelLine is the stock position of one product at one station.
// 0 <= CurrentStock <= Capacity holds after every mutation.
type FuelLine struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	StationID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_station_fuel" json:"station_id"`
	FuelType          string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_station_fuel" json:"fuel_type"`
	CurrentStock      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"current_stock"`
	Capacity          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"capacity"`
	Rate              decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"rate"`
	LowStockThreshold decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"low_stock_threshold"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (l *FuelLine) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

// IsLow reports whether stock is strictly below the threshold.
func (l FuelLine) IsLow() bool {
	return l.CurrentStock.LessThan(l.LowStockThreshold)
}

// StockPercent is current stock as a percentage of capacity, rounded to 1 dp.
func (l FuelLine) StockPercent() decimal.Decimal {
	if !l.Capacity.IsPositive() {
		return decimal.Zero
	}
	return l.CurrentStock.Div(l.Capacity).Mul(decimal.NewFromInt(100)).Round(1)
}
