package handlers

import (
	"net/http"

	"github.com/taxgeniuspro/linktrack/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type sessionRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// CreateSession exchanges a creator API key for a cookie session so the
// dashboard does not have to hold the key in the browser.
func (h *Handler) CreateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "api_key is required"})
		return
	}

	var creator models.Creator
	if err := h.db.Where("api_key = ?", req.APIKey).First(&creator).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	session := sessions.Default(c)
	session.Set("creator_id", creator.ID)
	if err := session.Save(); err != nil {
		h.logger.Error("Failed to save session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"creator_id": creator.ID,
		"name":       creator.DisplayName(),
	})
}

func (h *Handler) DeleteSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		h.logger.Error("Failed to clear session", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}
