// internal/domain/ordering/entity.go
package ordering

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"gorm.io/gorm"
)

// Status represents the order status. The fulfillment pipeline only ever
// creates orders as pending; the kitchen flows move them onward.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Order represents a customer order. TotalAmount is computed at creation
// from snapshotted unit prices and is immutable afterwards.
type Order struct {
	ID                  uint            `gorm:"primaryKey" json:"-"`
	OutletID            uint            `gorm:"not null;index" json:"-"`
	Status              Status          `gorm:"not null;size:20;default:'pending'" json:"status"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	SpecialInstructions string          `gorm:"type:text" json:"special_instructions"`
	Slug                string          `gorm:"uniqueIndex;not null;size:64" json:"slug"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem is one ordered line. Price is the per-unit price captured at
// order time; later catalog changes never touch it.
type OrderItem struct {
	ID         uint            `gorm:"primaryKey" json:"-"`
	OrderID    uint            `gorm:"not null;index" json:"-"`
	MenuItemID uint            `gorm:"not null;index" json:"-"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Slug       string          `gorm:"uniqueIndex;not null;size:64" json:"slug"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Relationships
	MenuItem menu.Item `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }
