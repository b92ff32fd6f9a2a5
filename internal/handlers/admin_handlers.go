package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

//
// --- Administrator: usage management ---
//
// These run behind the admin middleware; the allow-list check already
// happened by the time they execute.
//

// ListUsage handles GET /v1/admin/usage: every user's usage row, newest
// first.
func (h *Handlers) ListUsage(c *gin.Context) {
	records, err := h.Usage.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load usage records"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": records})
}

// LimitsInput is the body for PATCH /v1/admin/usage/:user_id.
type LimitsInput struct {
	MaxUsage  *int  `json:"max_usage" binding:"required"`
	IsPremium *bool `json:"is_premium" binding:"required"`
}

// UpdateUsageLimits edits a user's cap and premium flag. The only
// business validation is non-negativity of the cap.
func (h *Handlers) UpdateUsageLimits(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var input LimitsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_usage and is_premium are required"})
		return
	}
	if *input.MaxUsage < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_usage must be non-negative"})
		return
	}

	if err := h.Usage.SetLimits(c.Request.Context(), userID, *input.MaxUsage, *input.IsPremium); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update usage limits"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// ResetUsage zeroes a user's usage counter.
func (h *Handlers) ResetUsage(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if err := h.Usage.Reset(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset usage"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}
