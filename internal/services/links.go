package services

import (
	"errors"
	"strings"

	"github.com/taxgeniuspro/linktrack/internal/models"
	"github.com/taxgeniuspro/linktrack/pkg/utils"

	"gorm.io/gorm"
)

type LinkDTO struct {
	CreatorID      uint
	DestinationURL string
	Title          string
	LinkType       string
	CustomCode     string
	IPAddress      string // For Audit Log
}

// LinkService creates and deactivates tracked links. Links are never hard
// deleted; deactivation flips the active flag and historical counters stay.
type LinkService struct {
	db            *gorm.DB
	auditService  *AuditService
	codeGenerator func() string
}

func NewLinkService(db *gorm.DB, auditService *AuditService) *LinkService {
	return &LinkService{
		db:            db,
		auditService:  auditService,
		codeGenerator: utils.GenerateLinkCode,
	}
}

func (s *LinkService) CreateLink(dto LinkDTO) (*models.Link, error) {
	if strings.TrimSpace(dto.DestinationURL) == "" {
		return nil, ErrInvalidInput
	}

	linkType := dto.LinkType
	if linkType == "" {
		linkType = models.LinkTypeMaterial
	}

	var code string
	if dto.CustomCode != "" {
		var existing models.Link
		err := s.db.Where("code = ?", dto.CustomCode).First(&existing).Error
		if err == nil {
			return nil, ErrCodeTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		code = dto.CustomCode
	} else {
		for {
			code = s.codeGenerator()
			var existing models.Link
			err := s.db.Where("code = ?", code).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			if err != nil {
				return nil, err
			}
		}
	}

	link := models.Link{
		CreatorID:      dto.CreatorID,
		Code:           code,
		LinkType:       linkType,
		DestinationURL: dto.DestinationURL,
		Title:          dto.Title,
		Active:         true,
	}

	if err := s.db.Create(&link).Error; err != nil {
		return nil, err
	}

	creatorID := dto.CreatorID
	s.auditService.LogAction(&creatorID, "CREATE_LINK", link.Code, map[string]interface{}{
		"destination_url": dto.DestinationURL,
		"link_type":       linkType,
	}, dto.IPAddress)

	return &link, nil
}

// Deactivate soft-deactivates a link. Deactivated links drop out of the
// leaderboard and aggregation queries but keep their history.
func (s *LinkService) Deactivate(code string, creatorID *uint, ip string) error {
	if strings.TrimSpace(code) == "" {
		return ErrInvalidInput
	}

	var link models.Link
	if err := s.db.Where("code = ?", code).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLinkNotFound
		}
		return err
	}

	if err := s.db.Model(&link).UpdateColumn("active", false).Error; err != nil {
		return err
	}

	s.auditService.LogAction(creatorID, "DEACTIVATE_LINK", link.Code, nil, ip)
	return nil
}

func (s *LinkService) GetByCode(code string) (*models.Link, error) {
	var link models.Link
	if err := s.db.Where("code = ?", code).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}
