// internal/domain/menu/entity.go
package menu

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups menu items within an outlet
type Category struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	Name      string         `gorm:"not null;size:100;uniqueIndex:idx_menu_categories_outlet_name" json:"name"`
	OutletID  uint           `gorm:"not null;index;uniqueIndex:idx_menu_categories_outlet_name" json:"-"`
	SortOrder int            `gorm:"default:0" json:"sort_order"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	Slug      string         `gorm:"uniqueIndex;not null;size:64" json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Item represents a sellable menu item. Price is decimal; it is read at
// order time and snapshotted onto the order line, never re-read after.
type Item struct {
	ID          uint            `gorm:"primaryKey" json:"-"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CategoryID  *uint           `gorm:"index" json:"-"`
	OutletID    uint            `gorm:"not null;index" json:"-"`
	IsAvailable bool            `gorm:"default:true" json:"is_available"`
	Slug        string          `gorm:"uniqueIndex;not null;size:64" json:"slug"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName overrides
func (Category) TableName() string { return "menu_categories" }
func (Item) TableName() string     { return "menu_items" }
