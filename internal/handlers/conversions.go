package handlers

import (
	"errors"
	"net/http"

	"github.com/taxgeniuspro/linktrack/internal/services"

	"github.com/gin-gonic/gin"
)

type conversionRequest struct {
	Code        string `json:"code" binding:"required"`
	ClientID    string `json:"client_id"`
	Converted   bool   `json:"converted"`
	SignedUp    bool   `json:"signed_up"`
	ReturnFiled bool   `json:"return_filed"`
}

// RecordConversion is the webhook target for downstream funnel events:
// intake-form completion, account signup, filed return.
func (h *Handler) RecordConversion(c *gin.Context) {
	var req conversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	link, err := h.trackerService.RecordConversion(services.ConversionDTO{
		Code:        req.Code,
		ClientID:    req.ClientID,
		Converted:   req.Converted,
		SignedUp:    req.SignedUp,
		ReturnFiled: req.ReturnFiled,
		IPAddress:   c.ClientIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLinkNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link code"})
		default:
			h.logger.Error("Failed to record conversion", "code", req.Code, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record conversion"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "recorded",
		"code":            link.Code,
		"conversions":     link.Conversions,
		"signups":         link.Signups,
		"returns":         link.Returns,
		"conversion_rate": link.ConversionRate,
		"signup_rate":     link.SignupRate,
	})
}
