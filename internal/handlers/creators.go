package handlers

import (
	"net/http"

	"github.com/taxgeniuspro/linktrack/internal/models"
	"github.com/taxgeniuspro/linktrack/pkg/utils"

	"github.com/gin-gonic/gin"
)

type createCreatorRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
}

// CreateCreator provisions a creator account with a fresh API key. Called
// by the back-office service when a preparer or affiliate is onboarded.
func (h *Handler) CreateCreator(c *gin.Context) {
	var req createCreatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}

	var existing models.Creator
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	creator := models.Creator{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		APIKey:    utils.GenerateAPIKey(),
	}

	if err := h.db.Create(&creator).Error; err != nil {
		h.logger.Error("Failed to create creator", "email", req.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create creator"})
		return
	}

	h.auditService.LogAction(&creator.ID, "CREATE_CREATOR", creator.Email, nil, c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{
		"creator": creator,
		"api_key": creator.APIKey,
	})
}

// RotateAPIKey replaces the authenticated creator's API key. The old key
// stops working immediately; existing cookie sessions are unaffected.
func (h *Handler) RotateAPIKey(c *gin.Context) {
	creatorID := currentCreatorID(c)

	newKey := utils.GenerateAPIKey()
	if err := h.db.Model(&models.Creator{}).Where("id = ?", creatorID).Update("api_key", newKey).Error; err != nil {
		h.logger.Error("Failed to rotate API key", "creator_id", creatorID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate API key"})
		return
	}

	h.auditService.LogAction(&creatorID, "ROTATE_API_KEY", "", nil, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"api_key": newKey})
}
