package services

import (
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/taxgeniuspro/linktrack/internal/models"

	"github.com/mssola/user_agent"
	"gorm.io/gorm"
)

// uniqueWindow is the trailing window inside which repeat visits from the
// same IP on the same link do not count as unique.
const uniqueWindow = 24 * time.Hour

// maxTxRetries bounds transparent retries of the recorder transactions on
// transient store failures.
const maxTxRetries = 3

type ClickDTO struct {
	Code      string
	IPAddress string
	UserAgent string
	Referrer  string
}

type ConversionDTO struct {
	Code        string
	ClientID    string // optional; empty means un-attributed conversion
	Converted   bool
	SignedUp    bool
	ReturnFiled bool
	IPAddress   string // for audit log
}

// TrackerService records clicks and conversions against tracked links and
// keeps the per-link derived rates in step with the raw counters.
type TrackerService struct {
	db           *gorm.DB
	logger       *slog.Logger
	geoIPService *GeoIPService
	auditService *AuditService
	now          func() time.Time
}

func NewTrackerService(db *gorm.DB, logger *slog.Logger, geoIPService *GeoIPService, auditService *AuditService) *TrackerService {
	return &TrackerService{
		db:           db,
		logger:       logger,
		geoIPService: geoIPService,
		auditService: auditService,
		now:          time.Now,
	}
}

// RecordClick inserts a Click for the link resolved by dto.Code and bumps
// the link's click counters. The insert and the counter bump happen in one
// transaction so the counters never drift from the event log.
func (s *TrackerService) RecordClick(dto ClickDTO) (*models.Link, error) {
	if strings.TrimSpace(dto.Code) == "" {
		return nil, ErrInvalidInput
	}

	click := models.Click{
		IPAddress: dto.IPAddress,
		UserAgent: dto.UserAgent,
		Referrer:  dto.Referrer,
	}
	if click.Referrer == "" {
		click.Referrer = "Direct"
	}
	s.enrichClick(&click)

	var link models.Link
	err := s.withRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("code = ?", dto.Code).First(&link).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrLinkNotFound
				}
				return err
			}

			// Read-then-insert: two simultaneous clicks from the same IP can
			// both observe zero prior rows and both count as unique. The
			// clicks/event pairing stays exact; unique_clicks is best-effort
			// under that interleaving, same accepted-accuracy class as the
			// attribution breadth below.
			now := s.now()
			unique := true
			if dto.IPAddress != "" {
				var prior int64
				if err := tx.Model(&models.Click{}).
					Where("link_id = ? AND ip_address = ? AND timestamp > ?", link.ID, dto.IPAddress, now.Add(-uniqueWindow)).
					Count(&prior).Error; err != nil {
					return err
				}
				unique = prior == 0
			}

			// Fresh copy per attempt so a rolled-back insert cannot leak its
			// assigned primary key into a retry.
			event := click
			event.LinkID = link.ID
			event.Timestamp = now
			if err := tx.Create(&event).Error; err != nil {
				return err
			}

			updates := map[string]interface{}{
				"clicks": gorm.Expr("clicks + 1"),
			}
			if unique {
				updates["unique_clicks"] = gorm.Expr("unique_clicks + 1")
			}
			return tx.Model(&models.Link{}).Where("id = ?", link.ID).UpdateColumns(updates).Error
		})
	})
	if err != nil {
		return nil, err
	}

	return &link, nil
}

// RecordConversion attributes a downstream event (intake form, signup,
// filed return) back to the link's clicks and bumps the link counters.
//
// Attribution covers every still-unattributed click of the link, not just
// the most recent one: a single session often clicks the same link several
// times before converting once. This can over-attribute when unrelated
// visitors clicked the link before this client converted; the behavior is
// kept deliberately broad and is an accepted accuracy limitation.
func (s *TrackerService) RecordConversion(dto ConversionDTO) (*models.Link, error) {
	if strings.TrimSpace(dto.Code) == "" {
		return nil, ErrInvalidInput
	}

	var link models.Link
	err := s.withRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("code = ?", dto.Code).First(&link).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrLinkNotFound
				}
				return err
			}

			if dto.ClientID != "" {
				if err := tx.Model(&models.Click{}).
					Where("link_id = ? AND client_id IS NULL", link.ID).
					Updates(map[string]interface{}{
						"client_id": dto.ClientID,
						"converted": dto.Converted,
						"signed_up": dto.SignedUp,
					}).Error; err != nil {
					return err
				}
			}

			updates := map[string]interface{}{}
			if dto.Converted {
				updates["conversions"] = gorm.Expr("conversions + 1")
			}
			if dto.SignedUp {
				updates["signups"] = gorm.Expr("signups + 1")
			}
			if dto.ReturnFiled {
				updates["returns"] = gorm.Expr("returns + 1")
			}
			if len(updates) == 0 {
				return nil
			}

			if err := tx.Model(&models.Link{}).Where("id = ?", link.ID).UpdateColumns(updates).Error; err != nil {
				return err
			}
			return s.recalculateRates(tx, link.ID)
		})
	})
	if err != nil {
		return nil, err
	}

	if s.auditService != nil {
		s.auditService.LogAction(nil, "RECORD_CONVERSION", link.Code, map[string]interface{}{
			"client_id": dto.ClientID,
			"converted": dto.Converted,
			"signed_up": dto.SignedUp,
		}, dto.IPAddress)
	}

	// Re-read so callers see the post-increment counters and rates.
	if err := s.db.First(&link, link.ID).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// RecalculateRates refreshes the link's stored conversion and signup rates
// from its raw counters. Idempotent.
func (s *TrackerService) RecalculateRates(linkID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.recalculateRates(tx, linkID)
	})
}

func (s *TrackerService) recalculateRates(tx *gorm.DB, linkID uint) error {
	var link models.Link
	if err := tx.First(&link, linkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLinkNotFound
		}
		return err
	}

	// With zero clicks the previously stored rates are kept as-is rather
	// than being zeroed by a division guard.
	if link.Clicks == 0 {
		return nil
	}

	return tx.Model(&models.Link{}).Where("id = ?", linkID).UpdateColumns(map[string]interface{}{
		"conversion_rate": Round1(float64(link.Conversions) / float64(link.Clicks) * 100),
		"signup_rate":     Round1(float64(link.Signups) / float64(link.Clicks) * 100),
	}).Error
}

func (s *TrackerService) enrichClick(click *models.Click) {
	if click.UserAgent != "" {
		ua := user_agent.New(click.UserAgent)
		browserName, browserVer := ua.Browser()
		click.Browser = strings.TrimSpace(browserName + " " + browserVer)
		click.OS = ua.OS()

		if ua.Mobile() {
			click.DeviceType = "Mobile"
		} else if ua.Bot() {
			click.DeviceType = "Bot"
		} else {
			click.DeviceType = "Desktop"
		}
	}

	if s.geoIPService != nil && click.IPAddress != "" {
		country, region, city := s.geoIPService.GetLocation(click.IPAddress)
		click.Country = country
		click.Region = region
		click.City = city
	}
}

func (s *TrackerService) withRetry(op func() error) error {
	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err = op()
		if err == nil || errors.Is(err, ErrLinkNotFound) || errors.Is(err, ErrInvalidInput) {
			return err
		}
		s.logger.Warn("Recorder transaction failed, retrying", "attempt", attempt+1, "error", err)
	}
	return err
}

// Round1 rounds to one decimal place, half up.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
