// internal/interfaces/http/handlers/tenant.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/restaurant-backend/internal/domain/feature"
	"github.com/your-org/restaurant-backend/internal/domain/tenant"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/middleware"
)

// TenantHandler handles the administrative tenancy endpoints: franchises,
// outlets, the feature catalog and per-outlet entitlements.
type TenantHandler struct {
	tenantService  *tenant.Service
	featureService *feature.Service
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *tenant.Service, featureService *feature.Service) *TenantHandler {
	return &TenantHandler{
		tenantService:  tenantService,
		featureService: featureService,
	}
}

// CreateFranchise handles POST /admin/franchises
func (h *TenantHandler) CreateFranchise(c *gin.Context) {
	var req tenant.CreateFranchiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	franchise, err := h.tenantService.CreateFranchise(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Franchise created successfully",
		"data":    franchise,
	})
}

// ListFranchises handles GET /admin/franchises
func (h *TenantHandler) ListFranchises(c *gin.Context) {
	franchises, err := h.tenantService.ListFranchises()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": franchises,
	})
}

// GetFranchise handles GET /admin/franchises/:slug
func (h *TenantHandler) GetFranchise(c *gin.Context) {
	franchise, err := h.tenantService.GetFranchise(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": franchise,
	})
}

// CreateOutlet handles POST /admin/outlets
func (h *TenantHandler) CreateOutlet(c *gin.Context) {
	var req tenant.CreateOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	outlet, err := h.tenantService.CreateOutlet(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Outlet created successfully",
		"data":    outlet,
	})
}

// ListOutlets handles GET /admin/franchises/:slug/outlets
func (h *TenantHandler) ListOutlets(c *gin.Context) {
	outlets, err := h.tenantService.ListOutlets(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": outlets,
	})
}

// CreateFeature handles POST /admin/features
func (h *TenantHandler) CreateFeature(c *gin.Context) {
	var req feature.CreateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.featureService.CreateFeature(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Feature created successfully",
		"data":    created,
	})
}

// ListFeatures handles GET /admin/features
func (h *TenantHandler) ListFeatures(c *gin.Context) {
	features, err := h.featureService.ListFeatures()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": features,
	})
}

// GrantFeature handles POST /admin/outlets/:slug/features
func (h *TenantHandler) GrantFeature(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	outlet, err := h.tenantService.ResolveOutlet(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	grantedBy, _ := middleware.GetUserIDFromContext(c)
	if err := h.featureService.Grant(c.Request.Context(), outlet.ID, req.Code, grantedBy); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Feature granted successfully",
	})
}

// RevokeFeature handles DELETE /admin/outlets/:slug/features/:code
func (h *TenantHandler) RevokeFeature(c *gin.Context) {
	outlet, err := h.tenantService.ResolveOutlet(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.featureService.Revoke(c.Request.Context(), outlet.ID, c.Param("code")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Feature revoked successfully",
	})
}
