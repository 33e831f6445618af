package services

import (
	"log/slog"
	"math"
	"time"

	"github.com/taxgeniuspro/linktrack/internal/models"

	"gorm.io/gorm"
)

// TopPerformer is one leaderboard row: a link plus its owner's display name.
type TopPerformer struct {
	models.Link
	CreatorName string `json:"creator_name"`
}

// LinkFunnel is the per-link conversion funnel read off the link counters.
// The three rates use zero-decimal rounding, unlike the one-decimal stored
// link rates; both conventions are kept as the dashboards expect them.
type LinkFunnel struct {
	Clicks         int `json:"clicks"`
	UniqueVisitors int `json:"unique_visitors"`
	IntakeForms    int `json:"intake_forms"`
	Signups        int `json:"signups"`
	Returns        int `json:"returns"`
	IntakeRate     int `json:"intake_rate"`
	SignupRate     int `json:"signup_rate"`
	ReturnRate     int `json:"return_rate"`
}

// TypePerformance is one row of the by-link-type rollup.
type TypePerformance struct {
	LinkType          string  `json:"link_type"`
	Links             int     `json:"links"`
	Clicks            int     `json:"clicks"`
	Conversions       int     `json:"conversions"`
	Signups           int     `json:"signups"`
	AvgConversionRate float64 `json:"avg_conversion_rate"`
}

// PlatformTotals sums counters across all active links.
type PlatformTotals struct {
	Links          int64   `json:"links"`
	Clicks         int     `json:"clicks"`
	UniqueClicks   int     `json:"unique_clicks"`
	Conversions    int     `json:"conversions"`
	Signups        int     `json:"signups"`
	Returns        int     `json:"returns"`
	ConversionRate float64 `json:"conversion_rate"`
	SignupRate     float64 `json:"signup_rate"`
}

// FunnelStepReport is one step of a funnel report over a date range. The
// two derived fields are nil for the final step, which has no next step.
type FunnelStepReport struct {
	Step             string   `json:"step"`
	Position         int      `json:"position"`
	Views            int      `json:"views"`
	UniqueVisitors   int      `json:"unique_visitors"`
	Conversions      int      `json:"conversions"`
	Revenue          float64  `json:"revenue"`
	ConversionToNext *float64 `json:"conversion_to_next,omitempty"`
	DropOff          *float64 `json:"drop_off,omitempty"`
}

// ReportService builds the read-only dashboard views. It performs no
// mutation and never raises domain errors for empty data; brand-new links
// and funnels report zeroes.
type ReportService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewReportService(db *gorm.DB, logger *slog.Logger) *ReportService {
	return &ReportService{db: db, logger: logger}
}

// CreatorPerformance returns the creator's active links ordered by clicks,
// newest first among ties.
func (s *ReportService) CreatorPerformance(creatorID uint, limit int) ([]models.Link, error) {
	var links []models.Link
	err := s.db.Where("creator_id = ? AND active = ?", creatorID, true).
		Order("clicks desc, created_at desc").
		Limit(limit).
		Find(&links).Error
	return links, err
}

// TopPerformers returns the platform leaderboard: active links ordered by
// conversions, clicks breaking ties.
func (s *ReportService) TopPerformers(limit int) ([]TopPerformer, error) {
	var links []models.Link
	err := s.db.Preload("Creator").
		Where("active = ?", true).
		Order("conversions desc, clicks desc").
		Limit(limit).
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	performers := make([]TopPerformer, 0, len(links))
	for _, link := range links {
		name := "Unknown"
		if link.Creator != nil {
			name = link.Creator.DisplayName()
		}
		link.Creator = nil
		performers = append(performers, TopPerformer{Link: link, CreatorName: name})
	}
	return performers, nil
}

// Funnel returns the per-link conversion funnel. A missing link yields a
// zero-valued funnel rather than an error so dashboards always render.
func (s *ReportService) Funnel(linkID uint) LinkFunnel {
	var link models.Link
	if err := s.db.First(&link, linkID).Error; err != nil {
		return LinkFunnel{}
	}

	funnel := LinkFunnel{
		Clicks:         link.Clicks,
		UniqueVisitors: link.UniqueClicks,
		IntakeForms:    link.Conversions,
		Signups:        link.Signups,
		Returns:        link.Returns,
	}
	if link.Clicks > 0 {
		funnel.IntakeRate = round0(float64(link.Conversions) / float64(link.Clicks) * 100)
		funnel.SignupRate = round0(float64(link.Signups) / float64(link.Clicks) * 100)
		funnel.ReturnRate = round0(float64(link.Returns) / float64(link.Clicks) * 100)
	}
	return funnel
}

// PerformanceByType groups active links by link type.
func (s *ReportService) PerformanceByType() ([]TypePerformance, error) {
	var rows []TypePerformance
	err := s.db.Model(&models.Link{}).
		Where("active = ?", true).
		Select("link_type, count(*) as links, COALESCE(SUM(clicks), 0) as clicks, COALESCE(SUM(conversions), 0) as conversions, COALESCE(SUM(signups), 0) as signups, COALESCE(AVG(conversion_rate), 0) as avg_conversion_rate").
		Group("link_type").
		Order("clicks desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].AvgConversionRate = Round1(rows[i].AvgConversionRate)
	}
	return rows, nil
}

// Totals sums counters across all active links and derives platform-wide
// rates with one-decimal rounding.
func (s *ReportService) Totals() (PlatformTotals, error) {
	var totals PlatformTotals
	err := s.db.Model(&models.Link{}).
		Where("active = ?", true).
		Select("count(*) as links, COALESCE(SUM(clicks), 0) as clicks, COALESCE(SUM(unique_clicks), 0) as unique_clicks, COALESCE(SUM(conversions), 0) as conversions, COALESCE(SUM(signups), 0) as signups, COALESCE(SUM(returns), 0) as returns").
		Scan(&totals).Error
	if err != nil {
		return PlatformTotals{}, err
	}

	if totals.Clicks > 0 {
		totals.ConversionRate = Round1(float64(totals.Conversions) / float64(totals.Clicks) * 100)
		totals.SignupRate = Round1(float64(totals.Signups) / float64(totals.Clicks) * 100)
	}
	return totals, nil
}

// FunnelReport sums funnel step stats for one funnel over a date range and
// derives step-to-step conversion and drop-off. The figures are left
// unclamped: if a later step overcounts visitors, conversion can exceed
// 100 and drop-off can go negative, which is worth surfacing rather than
// hiding.
func (s *ReportService) FunnelReport(funnel string, from, to time.Time) ([]FunnelStepReport, error) {
	var steps []FunnelStepReport
	err := s.db.Model(&models.FunnelStepStat{}).
		Where("funnel = ? AND date >= ? AND date <= ?", funnel, from, to).
		Select("step, MIN(position) as position, COALESCE(SUM(views), 0) as views, COALESCE(SUM(unique_visitors), 0) as unique_visitors, COALESCE(SUM(conversions), 0) as conversions, COALESCE(SUM(revenue), 0) as revenue").
		Group("step").
		Order("position asc").
		Scan(&steps).Error
	if err != nil {
		return nil, err
	}

	for i := range steps {
		if i == len(steps)-1 {
			break
		}
		conv, drop := 0.0, 0.0
		if steps[i].UniqueVisitors > 0 {
			this := float64(steps[i].UniqueVisitors)
			next := float64(steps[i+1].UniqueVisitors)
			conv = Round1(next / this * 100)
			drop = Round1((this - next) / this * 100)
		}
		steps[i].ConversionToNext = &conv
		steps[i].DropOff = &drop
	}
	return steps, nil
}

func round0(v float64) int {
	return int(math.Round(v))
}
