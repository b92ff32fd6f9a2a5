package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/RoyWG925/geo-dashboard-demo/internal/middleware"
	"github.com/RoyWG925/geo-dashboard-demo/internal/pipeline"
	"github.com/gin-gonic/gin"
)

// paaHeader carries the collected questions alongside a streamed body.
// Base64-encoded JSON, because header values cannot carry raw CJK text.
const paaHeader = "X-PAA-Questions-Base64"

// GeoInput is the request body shared by the analyze and stream
// endpoints.
type GeoInput struct {
	Keyword           string `json:"keyword" binding:"required"`
	Model             string `json:"model"`
	CustomInstruction string `json:"customInstruction"`
	ForceRefresh      bool   `json:"forceRefresh"`
}

func (in GeoInput) options() pipeline.Options {
	return pipeline.Options{
		Model:             in.Model,
		CustomInstruction: in.CustomInstruction,
		ForceRefresh:      in.ForceRefresh,
	}
}

// Analyze handles POST /v1/geo/analyze: the full pipeline with a JSON
// response, cache-sourced or fresh.
func (h *Handlers) Analyze(c *gin.Context) {
	userID, email, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input GeoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing keyword"})
		return
	}

	result, err := h.Pipeline.Run(c.Request.Context(), userID, email, input.Keyword, input.options())
	if err != nil {
		h.respondPipelineError(c, input.Keyword, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"keyword":      result.Keyword,
		"paa":          result.PAA,
		"content":      result.Content,
		"draftContent": result.DraftContent,
		"usedModel":    result.UsedModel,
		"cached":       result.Cached,
		"compliance":   result.Compliance,
		"status":       "success",
	})
}

// StreamGeo handles POST /v1/geo/stream. Cache hits come back as a JSON
// payload; everything else streams the generated text, with the
// collected questions delivered in a response header before the body.
func (h *Handlers) StreamGeo(c *gin.Context) {
	userID, email, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input GeoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing keyword"})
		return
	}

	run, cached, err := h.Pipeline.PrepareStream(c.Request.Context(), userID, email, input.Keyword, input.options())
	if err != nil {
		h.respondPipelineError(c, input.Keyword, err)
		return
	}
	if cached != nil {
		c.JSON(http.StatusOK, gin.H{
			"type":    "cached",
			"content": cached.Content,
			"paa":     cached.PAA,
		})
		return
	}

	if paa := run.PAA(); len(paa) > 0 {
		if encoded, err := json.Marshal(paa); err == nil {
			c.Header(paaHeader, base64.StdEncoding.EncodeToString(encoded))
		}
	}
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	_, err = run.Stream(c.Request.Context(), func(chunk string) error {
		if _, err := c.Writer.WriteString(chunk); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		// Headers are already on the wire; all we can do is log and close.
		log.Printf("❌ stream for %q aborted: %v", input.Keyword, err)
	}
}

// History handles GET /v1/geo/history?limit=N, newest first.
func (h *Handlers) History(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	results, err := h.Results.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// respondPipelineError maps the pipeline error taxonomy onto HTTP
// responses. Only classified messages leave the service; provider error
// bodies stay in the logs.
func (h *Handlers) respondPipelineError(c *gin.Context, keyword string, err error) {
	if qe, ok := pipeline.IsQuotaExceeded(err); ok {
		c.JSON(http.StatusForbidden, gin.H{
			"error":        "Usage limit exceeded",
			"message":      "您已達到使用次數上限，請聯繫管理員以獲得更多使用次數。",
			"usageCount":   qe.UsageCount,
			"maxUsage":     qe.MaxUsage,
			"contactEmail": qe.ContactEmail,
		})
		return
	}

	var ese *pipeline.ExternalServiceError
	if errors.As(err, &ese) {
		log.Printf("❌ collection failed for %q: %v", keyword, err)
		c.JSON(http.StatusBadGateway, gin.H{
			"keyword":      keyword,
			"status":       "error",
			"errorMessage": "Search data collection failed",
		})
		return
	}

	var gfe *pipeline.GenerationFailedError
	if errors.As(err, &gfe) {
		log.Printf("❌ generation failed for %q: %v", keyword, err)
		// The questions were collected before generation failed; the
		// dashboard still shows them.
		paa := gfe.PAA
		if paa == nil {
			paa = []string{}
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"keyword":      keyword,
			"paa":          paa,
			"status":       "error",
			"errorMessage": "AI generation failed",
		})
		return
	}

	log.Printf("❌ pipeline error for %q: %v", keyword, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
}
