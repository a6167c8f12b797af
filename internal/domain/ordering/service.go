// internal/domain/ordering/service.go
package ordering

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/feature"
	"github.com/your-org/restaurant-backend/internal/domain/inventory"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/pkg/apperr"
	"github.com/your-org/restaurant-backend/internal/pkg/slug"
	"gorm.io/gorm"
)

// FeatureChecker resolves whether an outlet holds a feature entitlement
type FeatureChecker interface {
	HasFeature(ctx context.Context, outletID uint, code string) (bool, error)
}

// Service runs the order fulfillment pipeline: pricing, atomic order
// persistence, recipe expansion and stock ledger posting.
type Service struct {
	db        *gorm.DB
	config    *config.Config
	inventory *inventory.Service
	features  FeatureChecker
	logger    *logrus.Logger
}

// NewService creates a new ordering service
func NewService(db *gorm.DB, cfg *config.Config, inventorySvc *inventory.Service, features FeatureChecker, logger *logrus.Logger) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		inventory: inventorySvc,
		features:  features,
		logger:    logger,
	}
}

// OrderLineRequest is one requested line of an order
type OrderLineRequest struct {
	ItemSlug string `json:"item_slug" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest represents order creation data
type CreateOrderRequest struct {
	Items               []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
	SpecialInstructions string             `json:"special_instructions,omitempty"`
}

type pricedLine struct {
	menuItem *menu.Item
	quantity int
	price    decimal.Decimal
}

// CreateOrder prices the requested lines, persists the order with its
// items and, when the outlet holds the inventory feature, posts one usage
// ledger entry per consumed ingredient - all inside one transaction.
// Either everything commits or nothing does.
func (s *Service) CreateOrder(ctx context.Context, outletID uint, req *CreateOrderRequest) (*Order, error) {
	// Pricing: resolve every line before any write. Unit prices are
	// snapshotted here; later catalog changes never affect this order.
	totalAmount := decimal.Zero
	lines := make([]pricedLine, 0, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, apperr.Validation("quantity must be at least 1")
		}

		var item menu.Item
		err := s.db.Where("slug = ? AND outlet_id = ?", line.ItemSlug, outletID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("menu item '%s' not found", line.ItemSlug)
		}
		if err != nil {
			return nil, apperr.Persistence(err, "failed to resolve menu item")
		}

		totalAmount = totalAmount.Add(item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		lines = append(lines, pricedLine{menuItem: &item, quantity: line.Quantity, price: item.Price})
	}

	// Validating: resolve the inventory entitlement. A missing entitlement
	// does not block the order, it only suppresses the Posting phase.
	inventoryEnabled, err := s.features.HasFeature(ctx, outletID, feature.CodeInventory)
	if err != nil {
		return nil, err
	}

	// Committing: order, items and ledger postings share one transaction.
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	order := &Order{
		OutletID:            outletID,
		Status:              StatusPending,
		TotalAmount:         totalAmount,
		SpecialInstructions: req.SpecialInstructions,
		Slug:                slug.New(),
	}
	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		return nil, apperr.Persistence(err, "failed to create order")
	}

	for _, line := range lines {
		orderItem := OrderItem{
			OrderID:    order.ID,
			MenuItemID: line.menuItem.ID,
			Quantity:   line.quantity,
			Price:      line.price,
			Slug:       slug.New(),
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			return nil, apperr.Persistence(err, "failed to create order item")
		}
	}

	// Posting: expand each line through the recipe map and deduct stock.
	// Soft gate: with the feature disabled this branch is skipped on
	// purpose and the order still commits without side effects.
	if inventoryEnabled {
		if err := s.postStockUsage(tx, outletID, order, lines); err != nil {
			tx.Rollback()
			return nil, err
		}
	} else {
		s.logger.WithFields(logrus.Fields{
			"outlet_id": outletID,
			"order":     order.Slug,
		}).Info("inventory feature disabled, skipping stock postings")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperr.Persistence(err, "failed to commit order")
	}

	// Committed: assemble the order view from committed state.
	var created Order
	if err := s.db.Preload("Items.MenuItem").First(&created, order.ID).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to load created order")
	}
	return &created, nil
}

// postStockUsage posts one usage ledger entry per ingredient consumed by
// the ordered lines, inside the caller's transaction. Any failed posting
// aborts the whole order.
func (s *Service) postStockUsage(tx *gorm.DB, outletID uint, order *Order, lines []pricedLine) error {
	for _, line := range lines {
		var entries []inventory.RecipeEntry
		if err := tx.Preload("Ingredient").Where("menu_item_id = ?", line.menuItem.ID).
			Order("created_at").Find(&entries).Error; err != nil {
			return apperr.Persistence(err, "failed to expand recipe for menu item '%s'", line.menuItem.Slug)
		}

		for _, entry := range entries {
			totalUsed := entry.Quantity.Mul(decimal.NewFromInt(int64(line.quantity)))
			if totalUsed.IsZero() {
				continue
			}

			ingredient := entry.Ingredient
			note := fmt.Sprintf("Used in order %s", order.Slug)
			if _, err := s.inventory.PostInTx(tx, outletID, &ingredient, inventory.TransactionTypeUsage, totalUsed, note); err != nil {
				return err
			}
		}
	}
	return nil
}

// UpdateStatusRequest represents an order status change
type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

// validTransitions is the kitchen flow. Delivered and cancelled are terminal.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered},
}

// UpdateStatus moves an order along the kitchen flow
func (s *Service) UpdateStatus(outletID uint, orderSlug string, req *UpdateStatusRequest) (*Order, error) {
	order, err := s.GetOrder(outletID, orderSlug)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range validTransitions[order.Status] {
		if next == req.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperr.Validation("cannot move order from '%s' to '%s'", order.Status, req.Status)
	}

	order.Status = req.Status
	if err := s.db.Model(order).Update("status", req.Status).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to update order status")
	}
	return order, nil
}

// GetOrder retrieves an order by slug within an outlet
func (s *Service) GetOrder(outletID uint, orderSlug string) (*Order, error) {
	var order Order
	err := s.db.Preload("Items.MenuItem").Where("slug = ? AND outlet_id = ?", orderSlug, outletID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve order")
	}
	return &order, nil
}

// ListOrders retrieves all orders of an outlet, newest first
func (s *Service) ListOrders(outletID uint) ([]Order, error) {
	var orders []Order
	if err := s.db.Preload("Items.MenuItem").Where("outlet_id = ?", outletID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve orders")
	}
	return orders, nil
}
