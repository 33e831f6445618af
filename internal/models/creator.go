package models

import (
	"strings"
	"time"
)

type Creator struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:80" json:"first_name"`
	LastName  string    `gorm:"size:80" json:"last_name"`
	Email     string    `gorm:"unique;not null;size:120" json:"email"`
	APIKey    string    `gorm:"unique;index;size:36" json:"api_key"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	Links     []Link    `gorm:"foreignKey:CreatorID" json:"links,omitempty"`
}

// DisplayName returns the trimmed "First Last" form used on leaderboards,
// or "Unknown" when both parts are blank.
func (c *Creator) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if name == "" {
		return "Unknown"
	}
	return name
}
