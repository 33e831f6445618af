package models

import (
	"time"
)

// FunnelStepStat is one day of aggregate traffic for one step of a named
// funnel. Rows are upserted additively, keyed on (funnel, step, date).
type FunnelStepStat struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Funnel         string    `gorm:"size:100;not null;uniqueIndex:idx_funnel_step_date" json:"funnel"`
	Step           string    `gorm:"size:100;not null;uniqueIndex:idx_funnel_step_date" json:"step"`
	Position       int       `gorm:"not null" json:"position"`
	Date           time.Time `gorm:"not null;uniqueIndex:idx_funnel_step_date" json:"date"`
	Views          int       `gorm:"default:0" json:"views"`
	UniqueVisitors int       `gorm:"default:0" json:"unique_visitors"`
	Conversions    int       `gorm:"default:0" json:"conversions"`
	Revenue        float64   `gorm:"default:0" json:"revenue"`
}

func (FunnelStepStat) TableName() string {
	return "funnel_step_stats"
}
