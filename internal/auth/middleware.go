package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// OwnerRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
func OwnerRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
			})
			return
		}

		claims, err := jwtManager.ParseAndValidate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		// Store owner info into Gin context for later handlers.
		c.Set("ownerID", claims.OwnerID)
		c.Set("ownerEmail", claims.Email)

		c.Next()
	}
}
