package models

import (
	"time"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatorID *uint     `gorm:"index" json:"creator_id"`        // Nullable for webhook/system actions
	Action    string    `gorm:"size:50;not null" json:"action"` // e.g., "CREATE_LINK", "DEACTIVATE_LINK", "RECORD_CONVERSION"
	EntityID  string    `gorm:"size:50" json:"entity_id"`       // Link code or funnel name affected
	Details   string    `gorm:"type:text" json:"details"`       // JSON description
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	Timestamp time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"timestamp"`
}
