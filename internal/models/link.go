package models

import (
	"time"
)

// Link types understood by the reporting queries.
const (
	LinkTypeMaterial = "material"
	LinkTypeCampaign = "campaign"
	LinkTypeReferral = "referral"
)

type Link struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	CreatorID      uint     `gorm:"not null;index" json:"creator_id"`
	Creator        *Creator `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Code           string   `gorm:"unique;not null;size:20;index" json:"code"`
	LinkType       string   `gorm:"size:30;default:'material';index" json:"link_type"`
	DestinationURL string   `gorm:"not null;type:text" json:"destination_url"`
	Title          string   `gorm:"size:255" json:"title"`
	Active         bool     `gorm:"default:true;index" json:"active"`

	// Denormalized counters. Mutated only through atomic column
	// expressions inside the recorder transactions; never through
	// application-level read-modify-write.
	Clicks       int `gorm:"default:0" json:"clicks"`
	UniqueClicks int `gorm:"default:0" json:"unique_clicks"`
	Conversions  int `gorm:"default:0" json:"conversions"`
	Signups      int `gorm:"default:0" json:"signups"`
	Returns      int `gorm:"default:0" json:"returns"`

	// Derived from the counters by RecalculateRates, one decimal place.
	ConversionRate float64 `gorm:"default:0" json:"conversion_rate"`
	SignupRate     float64 `gorm:"default:0" json:"signup_rate"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	ClickEvents []Click `gorm:"foreignKey:LinkID;constraint:OnDelete:CASCADE" json:"click_events,omitempty"`
}

func (Link) TableName() string {
	return "links"
}
