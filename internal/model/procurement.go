package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockPurchase records a delivery into a station's fuel line.
type StockPurchase struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	StationID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"station_id"`
	StationName   string          `gorm:"type:varchar(255)" json:"station_name"`
	FuelType      string          `gorm:"type:varchar(10);not null" json:"fuel_type"`
	PurchaseDate  string          `gorm:"type:varchar(10);not null" json:"date"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	Applied       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"applied"`
	Overflow      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"overflow"`
	Cost          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cost"`
	Supplier      string          `gorm:"type:varchar(255)" json:"supplier"`
	TruckPlate    string          `gorm:"type:varchar(50)" json:"truck_plate,omitempty"`
	WaybillNumber string          `gorm:"type:varchar(100)" json:"waybill_number,omitempty"`
	DepotSource   string          `gorm:"type:varchar(255)" json:"depot_source,omitempty"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid" json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (p *StockPurchase) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// Movement directions
const (
	MovementIn  = "IN"
	MovementOut = "OUT"
)

// Movement reference types
const (
	RefDailyEntry    = "DAILY_ENTRY"
	RefStockPurchase = "STOCK_PURCHASE"
)

// StockMovement is the stock card: one row per change to a fuel line.
type StockMovement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	StationID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"station_id"`
	FuelType      string          `gorm:"type:varchar(10);not null" json:"fuel_type"`
	Direction     string          `gorm:"type:varchar(5);not null" json:"direction"`
	ReferenceType string          `gorm:"type:varchar(20);not null" json:"reference_type"`
	ReferenceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"reference_id"`
	Requested     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"requested"`
	Applied       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"applied"`
	StockBefore   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"stock_before"`
	StockAfter    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"stock_after"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
