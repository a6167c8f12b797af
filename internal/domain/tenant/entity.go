// internal/domain/tenant/entity.go
package tenant

import (
	"time"

	"gorm.io/gorm"
)

// Franchise represents a restaurant brand owning one or more outlets
type Franchise struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	Subdomain string         `gorm:"uniqueIndex;size:100" json:"subdomain"`
	AdminID   *uint          `gorm:"index" json:"-"`
	Slug      string         `gorm:"uniqueIndex;not null;size:64" json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Outlets []Outlet `gorm:"foreignKey:FranchiseID" json:"outlets,omitempty"`
}

// Outlet represents a single restaurant location. All ledger, recipe and
// order data is partitioned by outlet; no cross-outlet visibility exists.
type Outlet struct {
	ID          uint           `gorm:"primaryKey" json:"-"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	FranchiseID uint           `gorm:"not null;index" json:"-"`
	AdminID     *uint          `gorm:"index" json:"-"`
	Slug        string         `gorm:"uniqueIndex;not null;size:64" json:"slug"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Franchise Franchise `gorm:"foreignKey:FranchiseID" json:"franchise,omitempty"`
}

// TableName overrides
func (Franchise) TableName() string { return "franchises" }
func (Outlet) TableName() string    { return "outlets" }
