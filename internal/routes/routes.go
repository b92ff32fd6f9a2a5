package routes

import (
	"net/http"

	"github.com/RoyWG925/geo-dashboard-demo/internal/auth"
	"github.com/RoyWG925/geo-dashboard-demo/internal/handlers"
	"github.com/RoyWG925/geo-dashboard-demo/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware tells the browser the dashboard frontend may call us.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "http://localhost:3000")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-PAA-Questions-Base64")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers, tokens *auth.Manager) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware())

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Protected Routes (Login Required) ---
		authed := v1.Group("/")
		authed.Use(middleware.Auth(tokens))
		{
			// Keyword sources
			authed.GET("/keywords", h.GetKeywords)
			authed.POST("/keywords", h.AddKeyword)
			authed.DELETE("/keywords/:id", h.DeleteKeyword)

			// Usage ledger
			authed.GET("/usage", h.GetUsage)
			authed.POST("/usage", h.IncrementUsage)

			// GEO pipeline
			authed.POST("/geo/analyze", h.Analyze)
			authed.POST("/geo/stream", h.StreamGeo)
			authed.GET("/geo/history", h.History)

			// Manual content refinement
			authed.POST("/refine-content", h.RefineContent)
		}

		// --- Administrator Routes ---
		admin := v1.Group("/admin")
		admin.Use(middleware.Auth(tokens))
		admin.Use(middleware.AdminOnly(h.Cfg.IsAdmin))
		{
			admin.GET("/usage", h.ListUsage)
			admin.PATCH("/usage/:user_id", h.UpdateUsageLimits)
			admin.POST("/usage/:user_id/reset", h.ResetUsage)
		}
	}

	return router
}
