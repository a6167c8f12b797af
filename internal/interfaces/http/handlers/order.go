// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/restaurant-backend/internal/domain/ordering"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/middleware"
)

// OrderHandler handles the outlet-scoped order endpoints
type OrderHandler struct {
	orderService *ordering.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *ordering.Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// CreateOrder handles POST /:outlet/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	var req ordering.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), outlet.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"data":    order,
	})
}

// ListOrders handles GET /:outlet/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	orders, err := h.orderService.ListOrders(outlet.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": orders,
	})
}

// GetOrder handles GET /:outlet/orders/:slug
func (h *OrderHandler) GetOrder(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	order, err := h.orderService.GetOrder(outlet.ID, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": order,
	})
}

// UpdateOrderStatus handles PATCH /:outlet/orders/:slug/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	var req ordering.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := h.orderService.UpdateStatus(outlet.ID, c.Param("slug"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    order,
	})
}
