package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/mission365/classified-marketplace/pkg/errors"
	"github.com/mission365/classified-marketplace/pkg/logger"
)

// ErrorHandlerMiddleware handles errors and panics
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", stack).
					Msg("Panic recovered")

				c.JSON(errors.ErrInternalServer.Code, gin.H{
					"success": false,
					"message": errors.ErrInternalServer.Message,
				})
				c.Abort()
			}
		}()

		c.Next()

		// Handle errors attached to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			if verr, ok := err.(*errors.ValidationError); ok {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"success": false,
					"message": "Validation errors",
					"errors":  verr.Fields,
				})
				return
			}

			if appErr, ok := err.(*errors.AppError); ok {
				c.JSON(appErr.Code, gin.H{
					"success": false,
					"message": appErr.Message,
				})
				return
			}

			logger.Error().Err(err).Msg("Unhandled request error")
			c.JSON(errors.ErrInternalServer.Code, gin.H{
				"success": false,
				"message": errors.ErrInternalServer.Message,
			})
		}
	}
}
