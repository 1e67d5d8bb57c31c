package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Entry statuses
const (
	EntryPending  = "PENDING"
	EntryApproved = "APPROVED"
	EntryRejected = "REJECTED"
)

// Entry audit actions
const (
	EntryActionCreated   = "CREATED"
	EntryActionSubmitted = "SUBMITTED"
	EntryActionApproved  = "APPROVED"
	EntryActionRejected  = "REJECTED"
)

// PaymentBreakdown holds money received per settlement channel.
type PaymentBreakdown struct {
	Cash         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cash" validate:"gte=0"`
	POS          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"pos" validate:"gte=0"`
	BankTransfer decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"bank_transfer" validate:"gte=0"`
	CreditSales  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"credit_sales" validate:"gte=0"`
}

// Total sums every channel.
func (p PaymentBreakdown) Total() decimal.Decimal {
	return decimal.Sum(p.Cash, p.POS, p.BankTransfer, p.CreditSales)
}

// ExpenseBreakdown holds operating costs per category.
type ExpenseBreakdown struct {
	GeneratorDiesel decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"generator_diesel" validate:"gte=0"`
	GridPowerCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"grid_power_cost" validate:"gte=0"`
	SecurityLevy    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"security_levy" validate:"gte=0"`
	StaffAllowances decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"staff_allowances" validate:"gte=0"`
	Miscellaneous   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"miscellaneous" validate:"gte=0"`
}

// Total sums every category.
func (e ExpenseBreakdown) Total() decimal.Decimal {
	return decimal.Sum(e.GeneratorDiesel, e.GridPowerCost, e.SecurityLevy, e.StaffAllowances, e.Miscellaneous)
}

// DailyEntry is one station's sales record for one fuel type on one day.
type DailyEntry struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	EntryDate           string           `gorm:"type:varchar(10);not null;index" json:"date"`
	StationID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"station_id"`
	StationName         string           `gorm:"type:varchar(255);not null" json:"station_name"`
	FuelType            string           `gorm:"type:varchar(10);not null" json:"fuel_type"`
	OpeningMeter        decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"opening_meter"`
	ClosingMeter        decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"closing_meter"`
	QuantitySold        decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"quantity_sold"`
	Rate                decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"rate"`
	Amount              decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"amount"`
	Payments            PaymentBreakdown `gorm:"embedded;embeddedPrefix:payment_" json:"payments"`
	Expenses            ExpenseBreakdown `gorm:"embedded;embeddedPrefix:expense_" json:"expenses"`
	GeneratorHours      decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"generator_hours"`
	TotalPayments       decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"total_payments"`
	TotalExpenses       decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"total_expenses"`
	NetAmount           decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"net_amount"`
	ReconciliationDelta decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"reconciliation_delta"`
	Status              string           `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ApproverComments    string           `gorm:"type:text" json:"approver_comments,omitempty"`
	SubmittedBy         uuid.UUID        `gorm:"type:uuid;not null" json:"submitted_by"`
	DecidedBy           *uuid.UUID       `gorm:"type:uuid" json:"decided_by,omitempty"`
	DecidedAt           *time.Time       `json:"decided_at,omitempty"`
	AuditTrail          []EntryAuditLog  `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"audit_trail"`
	CreatedAt           time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

func (e *DailyEntry) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

// EntryAuditLog is one immutable event in a DailyEntry's history.
type EntryAuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EntryID   uuid.UUID `gorm:"type:uuid;not null;index" json:"entry_id"`
	Seq       int       `gorm:"type:int;not null" json:"seq"`
	Timestamp time.Time `gorm:"column:logged_at;not null;index" json:"timestamp"`
	UserID    uuid.UUID `gorm:"type:uuid" json:"user_id"`
	UserName  string    `gorm:"type:varchar(255)" json:"user_name"`
	Action    string    `gorm:"type:varchar(20);not null" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
}

func (l *EntryAuditLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
