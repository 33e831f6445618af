package services

import (
	"testing"
	"time"

	"github.com/taxgeniuspro/linktrack/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedLink(t *testing.T, db *gorm.DB, link models.Link) models.Link {
	if link.DestinationURL == "" {
		link.DestinationURL = "https://taxgeniuspro.tax/start"
	}
	// Create writes the schema default (active=true) back into the struct,
	// so remember the requested flag before inserting.
	wantActive := link.Active
	assert.NoError(t, db.Create(&link).Error)
	if !wantActive {
		// The schema default is active=true, which GORM applies when the
		// zero value is passed; force the flag for inactive fixtures.
		assert.NoError(t, db.Model(&models.Link{}).Where("id = ?", link.ID).UpdateColumn("active", false).Error)
	}
	return link
}

func TestCreatorPerformance(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db, testLogger())

	seedLink(t, db, models.Link{CreatorID: 7, Code: "A", Active: true, Clicks: 10})
	seedLink(t, db, models.Link{CreatorID: 7, Code: "B", Active: true, Clicks: 50})
	seedLink(t, db, models.Link{CreatorID: 7, Code: "C", Active: false, Clicks: 999})
	seedLink(t, db, models.Link{CreatorID: 8, Code: "D", Active: true, Clicks: 80})

	links, err := service.CreatorPerformance(7, 10)
	assert.NoError(t, err)
	assert.Len(t, links, 2)
	assert.Equal(t, "B", links[0].Code) // most clicks first
	assert.Equal(t, "A", links[1].Code)

	t.Run("Limit truncates", func(t *testing.T) {
		links, err := service.CreatorPerformance(7, 1)
		assert.NoError(t, err)
		assert.Len(t, links, 1)
		assert.Equal(t, "B", links[0].Code)
	})

	t.Run("Unknown creator yields empty, not error", func(t *testing.T) {
		links, err := service.CreatorPerformance(999, 10)
		assert.NoError(t, err)
		assert.Empty(t, links)
	})
}

func TestTopPerformers(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db, testLogger())

	creator := models.Creator{FirstName: "Maria", LastName: "Lopez", Email: "maria@example.com"}
	assert.NoError(t, db.Create(&creator).Error)

	// Tie on conversions is broken by clicks, higher first.
	seedLink(t, db, models.Link{CreatorID: creator.ID, Code: "T1", Active: true, Conversions: 5, Clicks: 100})
	seedLink(t, db, models.Link{CreatorID: creator.ID, Code: "T2", Active: true, Conversions: 5, Clicks: 50})
	seedLink(t, db, models.Link{CreatorID: 9999, Code: "T3", Active: true, Conversions: 2, Clicks: 200})
	seedLink(t, db, models.Link{CreatorID: creator.ID, Code: "OFF", Active: false, Conversions: 50, Clicks: 500})

	performers, err := service.TopPerformers(10)
	assert.NoError(t, err)
	assert.Len(t, performers, 3)
	assert.Equal(t, "T1", performers[0].Code)
	assert.Equal(t, "T2", performers[1].Code)
	assert.Equal(t, "T3", performers[2].Code)

	assert.Equal(t, "Maria Lopez", performers[0].CreatorName)
	assert.Equal(t, "Unknown", performers[2].CreatorName) // unresolvable creator
}

func TestLinkFunnel(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db, testLogger())

	t.Run("Counters with zero-decimal rates", func(t *testing.T) {
		link := seedLink(t, db, models.Link{
			CreatorID: 1, Code: "F1", Active: true,
			Clicks: 40, UniqueClicks: 30, Conversions: 10, Signups: 6, Returns: 3,
		})

		funnel := service.Funnel(link.ID)
		assert.Equal(t, 40, funnel.Clicks)
		assert.Equal(t, 30, funnel.UniqueVisitors)
		assert.Equal(t, 10, funnel.IntakeForms)
		assert.Equal(t, 6, funnel.Signups)
		assert.Equal(t, 3, funnel.Returns)
		assert.Equal(t, 25, funnel.IntakeRate)
		assert.Equal(t, 15, funnel.SignupRate)
		assert.Equal(t, 8, funnel.ReturnRate) // 7.5 rounds to 8
	})

	t.Run("Missing link degrades to zeroes", func(t *testing.T) {
		funnel := service.Funnel(424242)
		assert.Equal(t, LinkFunnel{}, funnel)
	})

	t.Run("Zero clicks yields zero rates", func(t *testing.T) {
		link := seedLink(t, db, models.Link{CreatorID: 1, Code: "F2", Active: true})
		funnel := service.Funnel(link.ID)
		assert.Equal(t, 0, funnel.IntakeRate)
	})
}

func TestPerformanceByType(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db, testLogger())

	seedLink(t, db, models.Link{CreatorID: 1, Code: "M1", Active: true, LinkType: models.LinkTypeMaterial, Clicks: 10, Conversions: 2, Signups: 1, ConversionRate: 20.0})
	seedLink(t, db, models.Link{CreatorID: 1, Code: "M2", Active: true, LinkType: models.LinkTypeMaterial, Clicks: 30, Conversions: 3, Signups: 2, ConversionRate: 10.0})
	seedLink(t, db, models.Link{CreatorID: 2, Code: "R1", Active: true, LinkType: models.LinkTypeReferral, Clicks: 5, Conversions: 1, Signups: 1, ConversionRate: 20.0})
	seedLink(t, db, models.Link{CreatorID: 2, Code: "DEAD", Active: false, LinkType: models.LinkTypeReferral, Clicks: 100})

	rows, err := service.PerformanceByType()
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	byType := map[string]TypePerformance{}
	for _, row := range rows {
		byType[row.LinkType] = row
	}

	material := byType[models.LinkTypeMaterial]
	assert.Equal(t, 2, material.Links)
	assert.Equal(t, 40, material.Clicks)
	assert.Equal(t, 5, material.Conversions)
	assert.Equal(t, 3, material.Signups)
	assert.Equal(t, 15.0, material.AvgConversionRate)

	referral := byType[models.LinkTypeReferral]
	assert.Equal(t, 1, referral.Links)
	assert.Equal(t, 5, referral.Clicks)
}

func TestPlatformTotals(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db, testLogger())

	t.Run("Empty platform reports zeroes", func(t *testing.T) {
		totals, err := service.Totals()
		assert.NoError(t, err)
		assert.Equal(t, int64(0), totals.Links)
		assert.Equal(t, 0.0, totals.ConversionRate)
	})

	t.Run("Sums across active links with one-decimal rates", func(t *testing.T) {
		seedLink(t, db, models.Link{CreatorID: 1, Code: "P1", Active: true, Clicks: 20, UniqueClicks: 15, Conversions: 5, Signups: 2, Returns: 1})
		seedLink(t, db, models.Link{CreatorID: 2, Code: "P2", Active: true, Clicks: 3, UniqueClicks: 3, Conversions: 2, Signups: 1})
		seedLink(t, db, models.Link{CreatorID: 2, Code: "P3", Active: false, Clicks: 1000})

		totals, err := service.Totals()
		assert.NoError(t, err)
		assert.Equal(t, int64(2), totals.Links)
		assert.Equal(t, 23, totals.Clicks)
		assert.Equal(t, 18, totals.UniqueClicks)
		assert.Equal(t, 7, totals.Conversions)
		assert.Equal(t, 3, totals.Signups)
		assert.Equal(t, 1, totals.Returns)
		assert.Equal(t, 30.4, totals.ConversionRate) // 7/23
		assert.Equal(t, 13.0, totals.SignupRate)     // 3/23
	})
}

func TestFunnelReport(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db, testLogger())

	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	seed := func(step string, pos, uniq int) {
		assert.NoError(t, db.Create(&models.FunnelStepStat{
			Funnel: "intake", Step: step, Position: pos, Date: day,
			Views: uniq * 2, UniqueVisitors: uniq, Conversions: uniq / 2,
		}).Error)
	}
	seed("landing", 1, 100)
	seed("form", 2, 40)
	seed("signup", 3, 10)

	from := day.AddDate(0, 0, -1)
	to := day.AddDate(0, 0, 1)

	t.Run("Steps ordered with derived rates", func(t *testing.T) {
		steps, err := service.FunnelReport("intake", from, to)
		assert.NoError(t, err)
		assert.Len(t, steps, 3)

		assert.Equal(t, "landing", steps[0].Step)
		assert.NotNil(t, steps[0].ConversionToNext)
		assert.Equal(t, 40.0, *steps[0].ConversionToNext)
		assert.Equal(t, 60.0, *steps[0].DropOff)

		assert.Equal(t, "form", steps[1].Step)
		assert.Equal(t, 25.0, *steps[1].ConversionToNext)
		assert.Equal(t, 75.0, *steps[1].DropOff)

		// Final step has no next step.
		assert.Nil(t, steps[2].ConversionToNext)
		assert.Nil(t, steps[2].DropOff)
	})

	t.Run("Zero visitors guards division", func(t *testing.T) {
		other := day
		assert.NoError(t, db.Create(&models.FunnelStepStat{Funnel: "empty", Step: "landing", Position: 1, Date: other}).Error)
		assert.NoError(t, db.Create(&models.FunnelStepStat{Funnel: "empty", Step: "form", Position: 2, Date: other, UniqueVisitors: 5}).Error)

		steps, err := service.FunnelReport("empty", from, to)
		assert.NoError(t, err)
		assert.Len(t, steps, 2)
		assert.Equal(t, 0.0, *steps[0].ConversionToNext)
		assert.Equal(t, 0.0, *steps[0].DropOff)
	})

	t.Run("Date range filters rows", func(t *testing.T) {
		steps, err := service.FunnelReport("intake", day.AddDate(0, 1, 0), day.AddDate(0, 2, 0))
		assert.NoError(t, err)
		assert.Empty(t, steps)
	})

	t.Run("Range sums across days", func(t *testing.T) {
		assert.NoError(t, db.Create(&models.FunnelStepStat{
			Funnel: "intake", Step: "landing", Position: 1, Date: day.AddDate(0, 0, 1),
			Views: 10, UniqueVisitors: 20,
		}).Error)

		steps, err := service.FunnelReport("intake", from, to)
		assert.NoError(t, err)
		assert.Equal(t, 120, steps[0].UniqueVisitors)
	})
}
