package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/RoyWG925/geo-dashboard-demo/internal/excel"
	"github.com/RoyWG925/geo-dashboard-demo/internal/middleware"
	"github.com/RoyWG925/geo-dashboard-demo/internal/repository"
	"github.com/gin-gonic/gin"
)

// GetKeywords handles GET /v1/keywords: the spreadsheet import plus the
// caller's personal list. Spreadsheet problems come back inside the list
// (the "Error:" sentinel), never as an HTTP failure.
func (h *Handlers) GetKeywords(c *gin.Context) {
	userID, _, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	spreadsheet := excel.ReadKeywords(h.Cfg.KeywordXLSXPath)

	custom, err := h.Keywords.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load custom keywords"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"spreadsheet": spreadsheet,
		"custom":      custom,
	})
}

// KeywordInput is the body for POST /v1/keywords.
type KeywordInput struct {
	Keyword string `json:"keyword" binding:"required"`
}

// AddKeyword handles POST /v1/keywords. Personal keywords are a premium
// feature; uniqueness is enforced per user.
func (h *Handlers) AddKeyword(c *gin.Context) {
	userID, email, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input KeywordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing keyword"})
		return
	}
	keyword := strings.TrimSpace(input.Keyword)
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword cannot be empty"})
		return
	}

	rec, err := h.Usage.GetOrCreate(c.Request.Context(), userID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load usage record"})
		return
	}
	if !rec.IsPremium {
		c.JSON(http.StatusForbidden, gin.H{"error": "Custom keywords require a premium account"})
		return
	}

	kw, err := h.Keywords.Add(c.Request.Context(), userID, keyword)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKeyword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword already in your list"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save keyword"})
		return
	}

	c.JSON(http.StatusCreated, kw)
}

// DeleteKeyword handles DELETE /v1/keywords/:id. Users can only delete
// their own rows.
func (h *Handlers) DeleteKeyword(c *gin.Context) {
	userID, _, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid keyword id"})
		return
	}

	deleted, err := h.Keywords.Delete(c.Request.Context(), userID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete keyword"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Keyword not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
