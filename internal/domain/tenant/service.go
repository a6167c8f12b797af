// internal/domain/tenant/service.go
package tenant

import (
	"errors"

	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/pkg/apperr"
	"github.com/your-org/restaurant-backend/internal/pkg/slug"
	"gorm.io/gorm"
)

// Service handles franchise and outlet management
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new tenant service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateFranchiseRequest represents franchise creation data
type CreateFranchiseRequest struct {
	Name      string `json:"name" binding:"required"`
	Subdomain string `json:"subdomain,omitempty"`
}

// CreateOutletRequest represents outlet creation data
type CreateOutletRequest struct {
	Name          string `json:"name" binding:"required"`
	FranchiseSlug string `json:"franchise_slug" binding:"required"`
}

// CreateFranchise creates a new franchise
func (s *Service) CreateFranchise(req *CreateFranchiseRequest) (*Franchise, error) {
	if req.Subdomain != "" {
		var existing Franchise
		if err := s.db.Where("subdomain = ?", req.Subdomain).First(&existing).Error; err == nil {
			return nil, apperr.Duplicate("franchise with subdomain '%s' already exists", req.Subdomain)
		}
	}

	franchise := &Franchise{
		Name:      req.Name,
		Subdomain: req.Subdomain,
		Slug:      slug.New(),
	}

	if err := s.db.Create(franchise).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to create franchise")
	}

	return franchise, nil
}

// GetFranchise retrieves a franchise by slug with its outlets
func (s *Service) GetFranchise(franchiseSlug string) (*Franchise, error) {
	var franchise Franchise
	err := s.db.Preload("Outlets").Where("slug = ?", franchiseSlug).First(&franchise).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("franchise not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve franchise")
	}
	return &franchise, nil
}

// ListFranchises retrieves all franchises
func (s *Service) ListFranchises() ([]Franchise, error) {
	var franchises []Franchise
	if err := s.db.Order("created_at").Find(&franchises).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve franchises")
	}
	return franchises, nil
}

// CreateOutlet creates a new outlet under a franchise
func (s *Service) CreateOutlet(req *CreateOutletRequest) (*Outlet, error) {
	var franchise Franchise
	err := s.db.Where("slug = ?", req.FranchiseSlug).First(&franchise).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("franchise not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve franchise")
	}

	outlet := &Outlet{
		Name:        req.Name,
		FranchiseID: franchise.ID,
		Slug:        slug.New(),
	}

	if err := s.db.Create(outlet).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to create outlet")
	}

	return outlet, nil
}

// ResolveOutlet resolves an outlet by its external slug. This is the
// tenancy lookup every outlet-scoped request goes through.
func (s *Service) ResolveOutlet(outletSlug string) (*Outlet, error) {
	var outlet Outlet
	err := s.db.Where("slug = ?", outletSlug).First(&outlet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("outlet not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "failed to resolve outlet")
	}
	return &outlet, nil
}

// ListOutlets retrieves all outlets of a franchise
func (s *Service) ListOutlets(franchiseSlug string) ([]Outlet, error) {
	franchise, err := s.GetFranchise(franchiseSlug)
	if err != nil {
		return nil, err
	}

	var outlets []Outlet
	if err := s.db.Where("franchise_id = ?", franchise.ID).Order("created_at").Find(&outlets).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve outlets")
	}
	return outlets, nil
}
