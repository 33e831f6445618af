package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/taxgeniuspro/linktrack/internal/services"

	"github.com/gin-gonic/gin"
)

type createLinkRequest struct {
	DestinationURL string `json:"destination_url" binding:"required"`
	Title          string `json:"title"`
	LinkType       string `json:"link_type"`
	CustomCode     string `json:"custom_code"`
}

func (h *Handler) CreateLink(c *gin.Context) {
	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination_url is required"})
		return
	}

	creatorID := currentCreatorID(c)

	link, err := h.linkService.CreateLink(services.LinkDTO{
		CreatorID:      creatorID,
		DestinationURL: req.DestinationURL,
		Title:          req.Title,
		LinkType:       req.LinkType,
		CustomCode:     req.CustomCode,
		IPAddress:      c.ClientIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCodeTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Custom code already taken"})
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link"})
		default:
			h.logger.Error("Failed to create link", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create link"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"link":      link,
		"track_url": h.cfg.BaseURL + "/t/" + link.Code,
	})
}

func (h *Handler) DeactivateLink(c *gin.Context) {
	code := c.Param("code")
	creatorID := currentCreatorID(c)

	if err := h.linkService.Deactivate(code, &creatorID, c.ClientIP()); err != nil {
		switch {
		case errors.Is(err, services.ErrLinkNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link code"})
		default:
			h.logger.Error("Failed to deactivate link", "code", code, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate link"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deactivated", "code": code})
}

// LinkQR renders the link's tracking URL as a QR PNG for print materials.
func (h *Handler) LinkQR(c *gin.Context) {
	code := c.Param("code")

	link, err := h.linkService.GetByCode(code)
	if err != nil {
		if errors.Is(err, services.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		h.logger.Error("Failed to load link for QR", "code", code, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR"})
		return
	}

	size, _ := strconv.Atoi(c.DefaultQuery("size", "256"))
	data, err := services.GenerateQRCode(services.QROptions{
		Content: h.cfg.BaseURL + "/t/" + link.Code,
		Size:    size,
		FgColor: c.Query("fg"),
		BgColor: c.Query("bg"),
	})
	if err != nil {
		h.logger.Error("Failed to generate QR", "code", code, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR"})
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

func currentCreatorID(c *gin.Context) uint {
	if v, ok := c.Get("creator_id"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
