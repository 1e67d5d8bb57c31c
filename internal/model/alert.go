package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert types
const (
	AlertLowStock         = "LOW_STOCK"
	AlertMismatch         = "MISMATCH"
	AlertStockDiscrepancy = "STOCK_DISCREPANCY"
	AlertUnusualExpense   = "UNUSUAL_EXPENSE"
	AlertTruckArrival     = "TRUCK_ARRIVAL"
)

// Severities
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Alert is an operational notification. Resolved is the only field users change.
type Alert struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Key         string     `gorm:"column:dedupe_key;type:varchar(255);not null;index" json:"key"`
	Type        string     `gorm:"type:varchar(30);not null;index" json:"type"`
	StationID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"station_id"`
	StationName string     `gorm:"type:varchar(255)" json:"station_name"`
	FuelType    string     `gorm:"type:varchar(10)" json:"fuel_type,omitempty"`
	RecordDate  string     `gorm:"type:varchar(10)" json:"record_date,omitempty"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	Severity    string     `gorm:"type:varchar(10);not null" json:"severity"`
	Observed    string     `gorm:"type:varchar(64)" json:"observed"`
	Timestamp   time.Time  `gorm:"column:raised_at;not null;index" json:"timestamp"`
	Resolved    bool       `gorm:"not null;default:false;index" json:"resolved"`
	ResolvedBy  *uuid.UUID `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
