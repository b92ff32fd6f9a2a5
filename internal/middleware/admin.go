package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminOnly must run after Auth. It checks the caller's email against the
// configured administrator allow-list; everyone else gets a 403.
func AdminOnly(isAdmin func(email string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, email, ok := Identity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User identity not found in context (Auth must run first)"})
			c.Abort()
			return
		}

		if !isAdmin(email) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: administrator role required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
