package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/taxgeniuspro/linktrack/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreatorLinksReport(c *gin.Context) {
	creatorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator id"})
		return
	}
	limit := intQuery(c, "limit", 10)

	links, err := h.reportService.CreatorPerformance(uint(creatorID), limit)
	if err != nil {
		h.logger.Error("Creator performance query failed", "creator_id", creatorID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Report unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"creator_id": creatorID, "links": links})
}

func (h *Handler) TopPerformersReport(c *gin.Context) {
	limit := intQuery(c, "limit", 10)

	performers, err := h.reportService.TopPerformers(limit)
	if err != nil {
		h.logger.Error("Top performers query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Report unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"top_performers": performers})
}

func (h *Handler) LinkFunnelReport(c *gin.Context) {
	linkID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link id"})
		return
	}

	// Unknown links come back zero-valued on purpose: the dashboard
	// renders an empty funnel instead of an error page.
	c.JSON(http.StatusOK, h.reportService.Funnel(uint(linkID)))
}

func (h *Handler) PerformanceByTypeReport(c *gin.Context) {
	rows, err := h.reportService.PerformanceByType()
	if err != nil {
		h.logger.Error("By-type report query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Report unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"types": rows})
}

func (h *Handler) PlatformTotalsReport(c *gin.Context) {
	totals, err := h.reportService.Totals()
	if err != nil {
		h.logger.Error("Platform totals query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Report unavailable"})
		return
	}

	c.JSON(http.StatusOK, totals)
}

func (h *Handler) FunnelStepsReport(c *gin.Context) {
	funnel := c.Param("funnel")

	to := dateQuery(c, "to", time.Now())
	from := dateQuery(c, "from", to.AddDate(0, 0, -30))

	steps, err := h.reportService.FunnelReport(funnel, from, to)
	if err != nil {
		h.logger.Error("Funnel report query failed", "funnel", funnel, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Report unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"funnel": funnel, "steps": steps})
}

type funnelEventRequest struct {
	Step           string  `json:"step" binding:"required"`
	Position       int     `json:"position"`
	Date           string  `json:"date"` // YYYY-MM-DD, defaults to today
	Views          int     `json:"views"`
	UniqueVisitors int     `json:"unique_visitors"`
	Conversions    int     `json:"conversions"`
	Revenue        float64 `json:"revenue"`
}

func (h *Handler) IngestFunnelEvent(c *gin.Context) {
	funnel := c.Param("funnel")

	var req funnelEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "step is required"})
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	err := h.funnelService.RecordStepEvent(services.FunnelEventDTO{
		Funnel:         funnel,
		Step:           req.Step,
		Position:       req.Position,
		Date:           date,
		Views:          req.Views,
		UniqueVisitors: req.UniqueVisitors,
		Conversions:    req.Conversions,
		Revenue:        req.Revenue,
	})
	if err != nil {
		if err == services.ErrInvalidInput {
			c.JSON(http.StatusBadRequest, gin.H{"error": "funnel and step are required"})
			return
		}
		h.logger.Error("Failed to ingest funnel event", "funnel", funnel, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func dateQuery(c *gin.Context, name string, fallback time.Time) time.Time {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	parsed, err := time.Parse("2006-01-02", v)
	if err != nil {
		return fallback
	}
	return parsed
}
