// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/restaurant-backend/internal/domain/feature"
	"github.com/your-org/restaurant-backend/internal/domain/inventory"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/domain/ordering"
	"github.com/your-org/restaurant-backend/internal/domain/tenant"
	"github.com/your-org/restaurant-backend/internal/domain/user"
	"github.com/your-org/restaurant-backend/internal/pkg/slug"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// Models lists every persisted model in dependency order. Shared with the
// test helpers so test schemas never drift from the real one.
func Models() []interface{} {
	return []interface{}{
		// Accounts and tenancy
		&user.User{},
		&tenant.Franchise{},
		&tenant.Outlet{},

		// Feature entitlement
		&feature.Feature{},
		&feature.OutletFeature{},

		// Menu catalog
		&menu.Category{},
		&menu.Item{},

		// Inventory ledger
		&inventory.Ingredient{},
		&inventory.RecipeEntry{},
		&inventory.Transaction{},

		// Ordering
		&ordering.Order{},
		&ordering.OrderItem{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("Running database auto-migrations...")

	for _, model := range Models() {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("Creating additional database indexes...")

	indexes := []string{
		// Ledger reads are outlet-scoped and ordered by creation
		"CREATE INDEX IF NOT EXISTS idx_inventory_transactions_outlet_created ON inventory_transactions(outlet_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_transactions_ingredient_created ON inventory_transactions(ingredient_id, created_at)",

		// Order listings
		"CREATE INDEX IF NOT EXISTS idx_orders_outlet_created ON orders(outlet_id, created_at DESC)",

		// Catalog lookups during pricing
		"CREATE INDEX IF NOT EXISTS idx_menu_items_outlet_slug ON menu_items(outlet_id, slug)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("Database indexes created successfully")
	return nil
}

// SeedInitialData seeds the feature catalog in development
func (m *Migration) SeedInitialData() error {
	log.Println("Seeding initial data...")

	features := []feature.Feature{
		{Code: feature.CodeInventory, Name: "Inventory Ledger", Description: "Stock tracking and automatic deduction on orders"},
	}

	for _, f := range features {
		var existing feature.Feature
		if err := m.db.Where("code = ?", f.Code).First(&existing).Error; err == nil {
			continue
		}
		f.Slug = slug.New()
		if err := m.db.Create(&f).Error; err != nil {
			return fmt.Errorf("failed to seed feature %s: %w", f.Code, err)
		}
	}

	log.Println("Initial data seeded successfully")
	return nil
}
