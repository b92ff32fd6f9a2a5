package handlers

import (
	"net/http"

	"github.com/RoyWG925/geo-dashboard-demo/internal/middleware"
	"github.com/RoyWG925/geo-dashboard-demo/internal/models"
	"github.com/gin-gonic/gin"
)

// usageView is the usage record as the dashboard consumes it: the raw
// row plus the computed remaining-runs counter (-1 for premium).
type usageView struct {
	*models.UsageRecord
	Remaining int `json:"remaining"`
}

func newUsageView(rec *models.UsageRecord) usageView {
	return usageView{UsageRecord: rec, Remaining: rec.Remaining()}
}

// GetUsage handles GET /v1/usage: returns the caller's usage record,
// creating the default row on first access.
func (h *Handlers) GetUsage(c *gin.Context) {
	userID, email, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rec, err := h.Usage.GetOrCreate(c.Request.Context(), userID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load usage record"})
		return
	}
	c.JSON(http.StatusOK, newUsageView(rec))
}

// IncrementUsage handles POST /v1/usage: reserves one usage unit for the
// caller, returning 403 with a structured message at the cap.
func (h *Handlers) IncrementUsage(c *gin.Context) {
	userID, email, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if _, err := h.Usage.GetOrCreate(c.Request.Context(), userID, email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load usage record"})
		return
	}

	rec, reserved, err := h.Usage.Reserve(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update usage record"})
		return
	}
	if !reserved {
		c.JSON(http.StatusForbidden, gin.H{
			"error":        "Usage limit exceeded",
			"message":      "您已達到使用次數上限，請聯繫管理員以獲得更多使用次數。",
			"usageCount":   rec.UsageCount,
			"maxUsage":     rec.MaxUsage,
			"contactEmail": h.Cfg.ContactEmail,
		})
		return
	}

	c.JSON(http.StatusOK, newUsageView(rec))
}
