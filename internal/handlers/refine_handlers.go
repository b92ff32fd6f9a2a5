package handlers

import (
	"net/http"

	"github.com/RoyWG925/geo-dashboard-demo/internal/middleware"
	"github.com/RoyWG925/geo-dashboard-demo/internal/pipeline"
	"github.com/gin-gonic/gin"
)

// RefineInput is the body for POST /v1/refine-content.
type RefineInput struct {
	OriginalContent  string `json:"originalContent" binding:"required"`
	RefinementPrompt string `json:"refinementPrompt" binding:"required"`
	Keyword          string `json:"keyword"`
}

// RefineContent applies a manual edit request to previously generated
// content, consuming one usage unit.
func (h *Handlers) RefineContent(c *gin.Context) {
	userID, email, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input RefineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	out, err := h.Pipeline.Refine(c.Request.Context(), userID, email, pipeline.RefineInput{
		Keyword:          input.Keyword,
		OriginalContent:  input.OriginalContent,
		RefinementPrompt: input.RefinementPrompt,
	})
	if err != nil {
		h.respondPipelineError(c, input.Keyword, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"refinedContent": out.RefinedContent,
		"usedModel":      out.UsedModel,
		"success":        true,
	})
}
