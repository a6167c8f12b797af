// internal/domain/inventory/entity.go
package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Unit represents an ingredient's unit of measure
type Unit string

const (
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLitre      Unit = "l"
	UnitMillilitre Unit = "ml"
	UnitPieces     Unit = "pcs"
	UnitTablespoon Unit = "tbsp"
	UnitTeaspoon   Unit = "tsp"
	UnitOunce      Unit = "oz"
	UnitPound      Unit = "lb"
)

// IsValid reports whether u is a known unit of measure
func (u Unit) IsValid() bool {
	switch u {
	case UnitKilogram, UnitGram, UnitLitre, UnitMillilitre, UnitPieces,
		UnitTablespoon, UnitTeaspoon, UnitOunce, UnitPound:
		return true
	}
	return false
}

// TransactionType represents the type of a stock ledger entry
type TransactionType string

const (
	TransactionTypePurchase   TransactionType = "purchase"   // stock added to inventory
	TransactionTypeUsage      TransactionType = "usage"      // stock consumed by sales or kitchen use
	TransactionTypeWastage    TransactionType = "wastage"    // stock lost to spoilage or damage
	TransactionTypeAdjustment TransactionType = "adjustment" // manual absolute correction
)

// IsValid reports whether t is a known transaction type
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypePurchase, TransactionTypeUsage, TransactionTypeWastage, TransactionTypeAdjustment:
		return true
	}
	return false
}

// Ingredient is a stock-tracked ingredient of an outlet. CurrentStock is
// only ever written by the ledger posting routine and the administrative
// stock override; both enforce the non-negativity invariant.
type Ingredient struct {
	ID           uint            `gorm:"primaryKey" json:"-"`
	Name         string          `gorm:"not null;size:100;uniqueIndex:idx_ingredients_outlet_name" json:"name"`
	OutletID     uint            `gorm:"not null;index;uniqueIndex:idx_ingredients_outlet_name" json:"-"`
	Unit         Unit            `gorm:"not null;size:10" json:"unit"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"current_stock"`
	MinimumStock decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"minimum_stock"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	Slug         string          `gorm:"uniqueIndex;not null;size:64" json:"slug"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// IsLowStock reports whether the balance is at or below the reorder threshold
func (i *Ingredient) IsLowStock() bool {
	return i.CurrentStock.LessThanOrEqual(i.MinimumStock)
}

// RecipeEntry maps a menu item to one ingredient it consumes, with the
// amount used per single unit of the menu item. Unique per pair.
type RecipeEntry struct {
	ID           uint            `gorm:"primaryKey" json:"-"`
	MenuItemID   uint            `gorm:"not null;index;uniqueIndex:idx_recipe_entries_pair" json:"-"`
	IngredientID uint            `gorm:"not null;index;uniqueIndex:idx_recipe_entries_pair" json:"-"`
	Quantity     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	Slug         string          `gorm:"uniqueIndex;not null;size:64" json:"slug"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Relationships
	Ingredient Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

// Transaction is an append-only stock ledger entry. Quantity is always
// stored positive; the sign convention is implied by the type. The entry
// and the balance recompute it triggers are one atomic unit.
//
// Administrative edits of historical entries do not re-derive the
// ingredient balance; entries double as an audit trail.
type Transaction struct {
	ID              uint            `gorm:"primaryKey" json:"-"`
	IngredientID    uint            `gorm:"not null;index" json:"-"`
	OutletID        uint            `gorm:"not null;index" json:"-"`
	TransactionType TransactionType `gorm:"not null;size:20" json:"transaction_type"`
	Quantity        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	PreviousStock   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"previous_stock"`
	NewStock        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"new_stock"`
	Note            string          `gorm:"type:text" json:"note"`
	Slug            string          `gorm:"uniqueIndex;not null;size:64" json:"slug"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	Ingredient Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

// TableName overrides
func (Ingredient) TableName() string  { return "ingredients" }
func (RecipeEntry) TableName() string { return "recipe_entries" }
func (Transaction) TableName() string { return "inventory_transactions" }
