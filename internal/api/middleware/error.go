package middleware

import (
	"fmt"
	"net/http"

	"uk-demand-dashboard/internal/api/models"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware turns panics into a 500 INTERNAL_ERROR response.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered", "path", c.Request.URL.Path, "panic", fmt.Sprint(recovered))

		message := "An unexpected error occurred"
		if err, ok := recovered.(string); ok {
			message = err
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
	})
}
