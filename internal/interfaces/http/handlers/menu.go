// internal/interfaces/http/handlers/menu.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/middleware"
)

// MenuHandler handles the outlet-scoped menu catalog endpoints
type MenuHandler struct {
	menuService *menu.Service
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *menu.Service) *MenuHandler {
	return &MenuHandler{
		menuService: menuService,
	}
}

// CreateCategory handles POST /:outlet/menu/categories
func (h *MenuHandler) CreateCategory(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	var req menu.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	category, err := h.menuService.CreateCategory(outlet.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Category created successfully",
		"data":    category,
	})
}

// ListCategories handles GET /:outlet/menu/categories
func (h *MenuHandler) ListCategories(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	categories, err := h.menuService.ListCategories(outlet.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": categories,
	})
}

// CreateItem handles POST /:outlet/menu/items
func (h *MenuHandler) CreateItem(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	var req menu.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.menuService.CreateItem(outlet.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Menu item created successfully",
		"data":    item,
	})
}

// ListItems handles GET /:outlet/menu/items
func (h *MenuHandler) ListItems(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	items, err := h.menuService.ListItems(outlet.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
	})
}

// GetItem handles GET /:outlet/menu/items/:slug
func (h *MenuHandler) GetItem(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	item, err := h.menuService.GetItem(outlet.ID, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": item,
	})
}

// UpdateItem handles PUT /:outlet/menu/items/:slug
func (h *MenuHandler) UpdateItem(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	var req menu.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.menuService.UpdateItem(outlet.ID, c.Param("slug"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item updated successfully",
		"data":    item,
	})
}

// DeleteItem handles DELETE /:outlet/menu/items/:slug
func (h *MenuHandler) DeleteItem(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	if err := h.menuService.DeleteItem(outlet.ID, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item deleted successfully",
	})
}
