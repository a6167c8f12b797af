// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/restaurant-backend/internal/domain/inventory"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/middleware"
)

// allIngredientsSentinel selects the whole registry on the ingredient read
// endpoint instead of a single slug.
const allIngredientsSentinel = "__all__"

// InventoryHandler handles the outlet-scoped ingredient registry, recipe
// map and stock ledger endpoints.
type InventoryHandler struct {
	inventoryService *inventory.Service
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *inventory.Service) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// CreateIngredient handles POST /:outlet/ingredients
func (h *InventoryHandler) CreateIngredient(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	var req inventory.CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ingredient, err := h.inventoryService.CreateIngredient(outlet.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Ingredient created successfully",
		"data":    ingredient,
	})
}

// GetIngredients handles GET /:outlet/ingredients?slug=<slug|__all__>.
// The sentinel (or an absent slug) returns the whole registry.
func (h *InventoryHandler) GetIngredients(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	ingredientSlug := c.Query("slug")
	if ingredientSlug == "" || ingredientSlug == allIngredientsSentinel {
		ingredients, err := h.inventoryService.ListIngredients(outlet.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data": ingredients,
		})
		return
	}

	ingredient, err := h.inventoryService.GetIngredient(outlet.ID, ingredientSlug)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": ingredient,
	})
}

// UpdateIngredient handles PUT /:outlet/ingredients/:slug
func (h *InventoryHandler) UpdateIngredient(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	var req inventory.UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ingredient, err := h.inventoryService.UpdateIngredient(outlet.ID, c.Param("slug"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ingredient updated successfully",
		"data":    ingredient,
	})
}

// SetIngredientActive handles PATCH /:outlet/ingredients/:slug/active
func (h *InventoryHandler) SetIngredientActive(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ingredient, err := h.inventoryService.SetIngredientActive(outlet.ID, c.Param("slug"), *req.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ingredient updated successfully",
		"data":    ingredient,
	})
}

// DeleteIngredient handles DELETE /:outlet/ingredients/:slug
func (h *InventoryHandler) DeleteIngredient(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	if err := h.inventoryService.DeleteIngredient(outlet.ID, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ingredient deleted successfully",
	})
}

// ListRecipeForMenuItem handles GET /:outlet/menu-items/:slug/ingredients
func (h *InventoryHandler) ListRecipeForMenuItem(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	entries, err := h.inventoryService.ListRecipeForMenuItem(outlet.ID, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": entries,
	})
}

// AddRecipeEntry handles POST /:outlet/recipes
func (h *InventoryHandler) AddRecipeEntry(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	var req inventory.AddRecipeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	entry, err := h.inventoryService.AddRecipeEntry(outlet.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe entry created successfully",
		"data":    entry,
	})
}

// UpdateRecipeEntry handles PUT /:outlet/recipes/:slug
func (h *InventoryHandler) UpdateRecipeEntry(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	var req inventory.UpdateRecipeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	entry, err := h.inventoryService.UpdateRecipeEntry(outlet.ID, c.Param("slug"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe entry updated successfully",
		"data":    entry,
	})
}

// DeleteRecipeEntry handles DELETE /:outlet/recipes/:slug
func (h *InventoryHandler) DeleteRecipeEntry(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	if err := h.inventoryService.DeleteRecipeEntry(outlet.ID, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe entry deleted successfully",
	})
}

// PostTransaction handles POST /:outlet/transactions
func (h *InventoryHandler) PostTransaction(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	var req inventory.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	entry, err := h.inventoryService.PostTransaction(outlet.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Transaction recorded successfully",
		"data":    entry,
	})
}

// ListTransactions handles GET /:outlet/transactions?ingredient=<slug>
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	ingredientSlug := c.Query("ingredient")

	var entries []inventory.Transaction
	var err error
	if ingredientSlug == "" {
		entries, err = h.inventoryService.ListTransactions(outlet.ID)
	} else {
		entries, err = h.inventoryService.ListTransactionsForIngredient(outlet.ID, ingredientSlug)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": entries,
	})
}

// GetTransaction handles GET /:outlet/transactions/:slug
func (h *InventoryHandler) GetTransaction(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	entry, err := h.inventoryService.GetTransaction(outlet.ID, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": entry,
	})
}

// UpdateTransaction handles PUT /:outlet/transactions/:slug
func (h *InventoryHandler) UpdateTransaction(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	var req inventory.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	entry, err := h.inventoryService.UpdateTransaction(outlet.ID, c.Param("slug"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transaction updated successfully",
		"data":    entry,
	})
}

// DeleteTransaction handles DELETE /:outlet/transactions/:slug
func (h *InventoryHandler) DeleteTransaction(c *gin.Context) {
	outlet, ok := middleware.GetOutletFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outlet not resolved"})
		return
	}

	if err := h.inventoryService.DeleteTransaction(outlet.ID, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transaction deleted successfully",
	})
}
