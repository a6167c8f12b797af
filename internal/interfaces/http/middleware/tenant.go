// internal/interfaces/http/middleware/tenant.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/restaurant-backend/internal/domain/tenant"
	"github.com/your-org/restaurant-backend/internal/pkg/apperr"
)

const outletContextKey = "outlet"

// ResolveOutlet resolves the :outlet path parameter to an outlet record and
// stores it in the request context. Every outlet-scoped route goes through it.
func ResolveOutlet(tenantService *tenant.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		outletSlug := c.Param("outlet")
		if outletSlug == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Outlet slug required",
			})
			c.Abort()
			return
		}

		outlet, err := tenantService.ResolveOutlet(outletSlug)
		if err != nil {
			c.JSON(apperr.StatusOf(err), gin.H{
				"error": "Outlet not found",
				"kind":  apperr.KindOf(err),
			})
			c.Abort()
			return
		}

		c.Set(outletContextKey, outlet)
		c.Next()
	}
}

// GetOutletFromContext returns the outlet resolved for this request.
func GetOutletFromContext(c *gin.Context) (*tenant.Outlet, bool) {
	value, exists := c.Get(outletContextKey)
	if !exists {
		return nil, false
	}
	outlet, ok := value.(*tenant.Outlet)
	return outlet, ok
}
