// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/restaurant-backend/internal/pkg/apperr"
)

// respondError writes a service error as a JSON envelope with a stable
// machine-readable kind alongside the human detail.
func respondError(c *gin.Context, err error) {
	var e *apperr.Error
	if errors.As(err, &e) {
		c.JSON(e.HTTPStatus(), gin.H{
			"error": e.Detail,
			"kind":  e.Kind,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}
