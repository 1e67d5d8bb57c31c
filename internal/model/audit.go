package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreateStation   = "CREATE_STATION"
	ActionUpdateStation   = "UPDATE_STATION"
	ActionDeleteStation   = "DELETE_STATION"
	ActionProcureStock    = "PROCURE_STOCK"
	ActionDeductStock     = "DEDUCT_STOCK"
	ActionResolveAlert    = "RESOLVE_ALERT"
	ActionSubmitEntry     = "SUBMIT_ENTRY"
	ActionApproveEntry    = "APPROVE_ENTRY"
	ActionRejectEntry     = "REJECT_ENTRY"
	ActionRestoreSnapshot = "RESTORE_SNAPSHOT"
)

// AuditLog tracks Who, What, and When for system changes outside entry trails
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil for system jobs
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:text" json:"details"` // JSON payload
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
