// internal/domain/feature/entity.go
package feature

import (
	"time"

	"gorm.io/gorm"
)

// Feature codes known to the backend.
const (
	CodeInventory = "inventory"
)

// Feature represents an optional capability outlets can be entitled to
type Feature struct {
	ID          uint           `gorm:"primaryKey" json:"-"`
	Code        string         `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Name        string         `gorm:"not null;size:100" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Slug        string         `gorm:"uniqueIndex;not null;size:64" json:"slug"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// OutletFeature is a per-outlet entitlement grant
type OutletFeature struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	OutletID  uint      `gorm:"not null;index;uniqueIndex:idx_outlet_features_pair" json:"-"`
	FeatureID uint      `gorm:"not null;index;uniqueIndex:idx_outlet_features_pair" json:"-"`
	GrantedBy uint      `gorm:"index" json:"granted_by"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Feature Feature `gorm:"foreignKey:FeatureID" json:"feature,omitempty"`
}

// TableName overrides
func (Feature) TableName() string       { return "features" }
func (OutletFeature) TableName() string { return "outlet_features" }
