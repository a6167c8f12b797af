// internal/domain/menu/service.go
package menu

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/pkg/apperr"
	"github.com/your-org/restaurant-backend/internal/pkg/slug"
	"gorm.io/gorm"
)

// Service handles menu catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new menu service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateCategoryRequest represents category creation data
type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// CreateItemRequest represents menu item creation data
type CreateItemRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	CategorySlug string          `json:"category_slug,omitempty"`
}

// UpdateItemRequest represents menu item update data
type UpdateItemRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	IsAvailable *bool            `json:"is_available,omitempty"`
}

// CreateCategory creates a new menu category for an outlet
func (s *Service) CreateCategory(outletID uint, req *CreateCategoryRequest) (*Category, error) {
	var existing Category
	if err := s.db.Where("outlet_id = ? AND name = ?", outletID, req.Name).First(&existing).Error; err == nil {
		return nil, apperr.Duplicate("category '%s' already exists", req.Name)
	}

	category := &Category{
		Name:      req.Name,
		OutletID:  outletID,
		SortOrder: req.SortOrder,
		IsActive:  true,
		Slug:      slug.New(),
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to create category")
	}

	return category, nil
}

// ListCategories retrieves all categories of an outlet
func (s *Service) ListCategories(outletID uint) ([]Category, error) {
	var categories []Category
	if err := s.db.Where("outlet_id = ?", outletID).Order("sort_order, name").Find(&categories).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve categories")
	}
	return categories, nil
}

// CreateItem creates a new menu item for an outlet
func (s *Service) CreateItem(outletID uint, req *CreateItemRequest) (*Item, error) {
	if req.Price.IsNegative() {
		return nil, apperr.Validation("price cannot be negative")
	}

	item := &Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		OutletID:    outletID,
		IsAvailable: true,
		Slug:        slug.New(),
	}

	if req.CategorySlug != "" {
		var category Category
		err := s.db.Where("slug = ? AND outlet_id = ?", req.CategorySlug, outletID).First(&category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		if err != nil {
			return nil, apperr.Persistence(err, "failed to retrieve category")
		}
		item.CategoryID = &category.ID
	}

	if err := s.db.Create(item).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to create menu item")
	}

	return item, nil
}

// GetItem retrieves a menu item by slug within an outlet
func (s *Service) GetItem(outletID uint, itemSlug string) (*Item, error) {
	var item Item
	err := s.db.Preload("Category").Where("slug = ? AND outlet_id = ?", itemSlug, outletID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("menu item not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve menu item")
	}
	return &item, nil
}

// ListItems retrieves all menu items of an outlet
func (s *Service) ListItems(outletID uint) ([]Item, error) {
	var items []Item
	if err := s.db.Preload("Category").Where("outlet_id = ?", outletID).Order("name").Find(&items).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve menu items")
	}
	return items, nil
}

// UpdateItem mutates editable fields of a menu item. Price changes never
// affect already committed orders; their lines keep the snapshotted price.
func (s *Service) UpdateItem(outletID uint, itemSlug string, req *UpdateItemRequest) (*Item, error) {
	item, err := s.GetItem(outletID, itemSlug)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperr.Validation("price cannot be negative")
		}
		item.Price = *req.Price
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.db.Save(item).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to update menu item")
	}

	return item, nil
}

// DeleteItem soft-deletes a menu item
func (s *Service) DeleteItem(outletID uint, itemSlug string) error {
	item, err := s.GetItem(outletID, itemSlug)
	if err != nil {
		return err
	}

	if err := s.db.Delete(item).Error; err != nil {
		return apperr.Persistence(err, "failed to delete menu item")
	}
	return nil
}
