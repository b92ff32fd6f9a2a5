package middleware

import (
	"net/http"
	"strings"

	"github.com/RoyWG925/geo-dashboard-demo/internal/auth"
	"github.com/gin-gonic/gin"
)

// Auth validates the Bearer token and stores the caller's identity in the
// gin context under "userID" and "userEmail". Everything behind it can
// assume an authenticated user.
func Auth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			c.Abort()
			return
		}

		userID, email, err := tokens.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("userEmail", email)
		c.Next()
	}
}

// Identity reads the values set by Auth. The bool is false when Auth did
// not run, which handlers treat as an unauthenticated request.
func Identity(c *gin.Context) (int64, string, bool) {
	idRaw, ok := c.Get("userID")
	if !ok {
		return 0, "", false
	}
	emailRaw, ok := c.Get("userEmail")
	if !ok {
		return 0, "", false
	}
	return idRaw.(int64), emailRaw.(string), true
}
