package models

import (
	"time"
)

type Click struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LinkID    uint      `gorm:"not null;index" json:"link_id"`
	Timestamp time.Time `gorm:"default:CURRENT_TIMESTAMP;index" json:"timestamp"`
	IPAddress string    `gorm:"size:45;index" json:"ip_address,omitempty"`
	UserAgent string    `gorm:"size:255" json:"user_agent,omitempty"`
	Referrer  string    `gorm:"size:255;default:'Direct'" json:"referrer"`

	// Best-effort geo fields, left empty when the GeoIP database is
	// unavailable or the address does not resolve.
	Country string `gorm:"size:100" json:"country"`
	Region  string `gorm:"size:100" json:"region"`
	City    string `gorm:"size:100" json:"city"`

	Browser    string `gorm:"size:50" json:"browser"`
	OS         string `gorm:"size:100" json:"os"`
	DeviceType string `gorm:"size:50" json:"device_type"`

	// Attribution fields. Set at most once, by the conversion recorder,
	// when a later conversion names a client. Everything else on this
	// row is immutable after insert.
	Converted bool    `gorm:"default:false" json:"converted"`
	SignedUp  bool    `gorm:"default:false" json:"signed_up"`
	ClientID  *string `gorm:"size:64;index" json:"client_id,omitempty"`
}

func (Click) TableName() string {
	return "clicks"
}
