package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mission365/classified-marketplace/internal/database"
	"github.com/mission365/classified-marketplace/internal/models"
	"github.com/mission365/classified-marketplace/pkg/errors"
	"github.com/mission365/classified-marketplace/pkg/utils"
)

func abortUnauthorized(c *gin.Context, message string) {
	appErr := errors.Unauthorized(message)
	c.AbortWithStatusJSON(appErr.Code, gin.H{"success": false, "message": appErr.Message})
}

// AuthMiddleware resolves the caller's identity from a bearer token and
// aborts with 401 when it is missing or invalid. Token issuance lives
// outside this service; the handlers only ever see the resolved user id.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		// Verify user exists and is active
		var user models.User
		if err := database.DB.Select("id", "is_active").First(&user, "id = ?", claims.UserID).Error; err != nil || !user.IsActive {
			abortUnauthorized(c, "User not found or inactive")
			return
		}

		c.Set("userId", claims.UserID)
		c.Next()
	}
}

// OptionalAuthMiddleware attempts to validate the token if present, but does
// not abort when it is missing or invalid. Sets "userId" only on success.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set("userId", claims.UserID)
		c.Next()
	}
}
