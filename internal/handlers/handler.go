package handlers

import (
	"log/slog"

	"github.com/taxgeniuspro/linktrack/internal/config"
	"github.com/taxgeniuspro/linktrack/internal/services"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Handler struct {
	cfg            config.Config
	logger         *slog.Logger
	db             *gorm.DB
	rdb            *redis.Client
	linkService    *services.LinkService
	trackerService *services.TrackerService
	reportService  *services.ReportService
	funnelService  *services.FunnelService
	auditService   *services.AuditService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	db *gorm.DB,
	rdb *redis.Client,
	linkService *services.LinkService,
	trackerService *services.TrackerService,
	reportService *services.ReportService,
	funnelService *services.FunnelService,
	auditService *services.AuditService,
) *Handler {
	return &Handler{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		rdb:            rdb,
		linkService:    linkService,
		trackerService: trackerService,
		reportService:  reportService,
		funnelService:  funnelService,
		auditService:   auditService,
	}
}
