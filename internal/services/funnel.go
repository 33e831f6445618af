package services

import (
	"log/slog"
	"strings"
	"time"

	"github.com/taxgeniuspro/linktrack/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FunnelEventDTO struct {
	Funnel         string
	Step           string
	Position       int
	Date           time.Time
	Views          int
	UniqueVisitors int
	Conversions    int
	Revenue        float64
}

// FunnelService is the write side of the funnel analytics aggregate. One
// row per (funnel, step, day), incremented additively on conflict so
// concurrent ingestion never loses updates.
type FunnelService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewFunnelService(db *gorm.DB, logger *slog.Logger) *FunnelService {
	return &FunnelService{db: db, logger: logger}
}

func (s *FunnelService) RecordStepEvent(dto FunnelEventDTO) error {
	if strings.TrimSpace(dto.Funnel) == "" || strings.TrimSpace(dto.Step) == "" {
		return ErrInvalidInput
	}

	date := dto.Date
	if date.IsZero() {
		date = time.Now()
	}
	date = date.UTC().Truncate(24 * time.Hour)

	stat := models.FunnelStepStat{
		Funnel:         dto.Funnel,
		Step:           dto.Step,
		Position:       dto.Position,
		Date:           date,
		Views:          dto.Views,
		UniqueVisitors: dto.UniqueVisitors,
		Conversions:    dto.Conversions,
		Revenue:        dto.Revenue,
	}

	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "funnel"}, {Name: "step"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"position":        dto.Position,
			"views":           gorm.Expr("funnel_step_stats.views + ?", dto.Views),
			"unique_visitors": gorm.Expr("funnel_step_stats.unique_visitors + ?", dto.UniqueVisitors),
			"conversions":     gorm.Expr("funnel_step_stats.conversions + ?", dto.Conversions),
			"revenue":         gorm.Expr("funnel_step_stats.revenue + ?", dto.Revenue),
		}),
	}).Create(&stat).Error
}
