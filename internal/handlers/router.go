package handlers

import (
	"github.com/taxgeniuspro/linktrack/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	r.Use(sessions.Sessions("linktrack_session", store))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Public tracking redirect. Rate limited so a scraper cannot flood the
	// click log.
	track := r.Group("/")
	if rateLimiter != nil {
		track.Use(h.RateLimitMiddleware(rateLimiter))
	}
	track.GET("/t/:code", h.TrackRedirect)

	// Dashboard session management
	r.POST("/api/v1/session", h.CreateSession)
	r.DELETE("/api/v1/session", h.DeleteSession)

	// Conversion webhooks from the intake/signup/filing services
	webhooks := r.Group("/api/v1")
	webhooks.Use(h.WebhookAuth())
	{
		webhooks.POST("/conversions", h.RecordConversion)
		webhooks.POST("/funnels/:funnel/steps", h.IngestFunnelEvent)
		webhooks.POST("/creators", h.CreateCreator)
	}

	// Creator/admin API
	authorized := r.Group("/api/v1")
	authorized.Use(h.AuthRequired())
	{
		authorized.POST("/creators/key", h.RotateAPIKey)

		authorized.POST("/links", h.CreateLink)
		authorized.POST("/links/:code/deactivate", h.DeactivateLink)
		authorized.GET("/links/:code/qr", h.LinkQR)

		authorized.GET("/reports/creators/:id/links", h.CreatorLinksReport)
		authorized.GET("/reports/top", h.TopPerformersReport)
		authorized.GET("/reports/links/:id/funnel", h.LinkFunnelReport)
		authorized.GET("/reports/by-type", h.PerformanceByTypeReport)
		authorized.GET("/reports/totals", h.PlatformTotalsReport)
		authorized.GET("/reports/funnels/:funnel", h.FunnelStepsReport)
	}

	return r
}
