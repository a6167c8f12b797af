// internal/domain/ordering/service_test.go
package ordering_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/feature"
	"github.com/your-org/restaurant-backend/internal/domain/inventory"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/domain/ordering"
	"github.com/your-org/restaurant-backend/internal/domain/tenant"
	"github.com/your-org/restaurant-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/restaurant-backend/internal/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixture wires the full fulfillment pipeline against an in-memory database.
type fixture struct {
	db        *gorm.DB
	outlet    *tenant.Outlet
	inventory *inventory.Service
	features  *feature.Service
	orders    *ordering.Service
	menu      *menu.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	for _, model := range postgres.Models() {
		require.NoError(t, db.AutoMigrate(model))
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{}

	tenantSvc := tenant.NewService(db, cfg)
	franchise, err := tenantSvc.CreateFranchise(&tenant.CreateFranchiseRequest{Name: "Testaurant"})
	require.NoError(t, err)
	outlet, err := tenantSvc.CreateOutlet(&tenant.CreateOutletRequest{Name: "Downtown", FranchiseSlug: franchise.Slug})
	require.NoError(t, err)

	inventorySvc := inventory.NewService(db, cfg)
	featureSvc := feature.NewService(db, cfg, nil, log)
	orderSvc := ordering.NewService(db, cfg, inventorySvc, featureSvc, log)

	return &fixture{
		db:        db,
		outlet:    outlet,
		inventory: inventorySvc,
		features:  featureSvc,
		orders:    orderSvc,
		menu:      menu.NewService(db, cfg),
	}
}

func (f *fixture) grantInventory(t *testing.T) {
	t.Helper()
	_, err := f.features.CreateFeature(&feature.CreateFeatureRequest{
		Code: feature.CodeInventory,
		Name: "Inventory Ledger",
	})
	require.NoError(t, err)
	require.NoError(t, f.features.Grant(context.Background(), f.outlet.ID, feature.CodeInventory, 1))
}

func (f *fixture) addMenuItem(t *testing.T, name, price string) *menu.Item {
	t.Helper()
	item, err := f.menu.CreateItem(f.outlet.ID, &menu.CreateItemRequest{
		Name:  name,
		Price: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return item
}

func (f *fixture) addIngredient(t *testing.T, name, stock string) *inventory.Ingredient {
	t.Helper()
	ingredient, err := f.inventory.CreateIngredient(f.outlet.ID, &inventory.CreateIngredientRequest{
		Name:         name,
		Unit:         inventory.UnitKilogram,
		CurrentStock: decimal.RequireFromString(stock),
	})
	require.NoError(t, err)
	return ingredient
}

func (f *fixture) addRecipe(t *testing.T, item *menu.Item, ingredient *inventory.Ingredient, quantity string) {
	t.Helper()
	_, err := f.inventory.AddRecipeEntry(f.outlet.ID, &inventory.AddRecipeEntryRequest{
		MenuItemSlug:   item.Slug,
		IngredientSlug: ingredient.Slug,
		Quantity:       decimal.RequireFromString(quantity),
	})
	require.NoError(t, err)
}

func (f *fixture) stockOf(t *testing.T, ingredient *inventory.Ingredient) decimal.Decimal {
	t.Helper()
	reloaded, err := f.inventory.GetIngredient(f.outlet.ID, ingredient.Slug)
	require.NoError(t, err)
	return reloaded.CurrentStock
}

func TestCreateOrderDeductsStockThroughRecipe(t *testing.T) {
	f := newFixture(t)
	f.grantInventory(t)

	bread := f.addMenuItem(t, "Bread", "4.50")
	flour := f.addIngredient(t, "Flour", "10")
	f.addRecipe(t, bread, flour, "2")

	order, err := f.orders.CreateOrder(context.Background(), f.outlet.ID, &ordering.CreateOrderRequest{
		Items: []ordering.OrderLineRequest{{ItemSlug: bread.Slug, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, ordering.StatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("9.00")), "total %s", order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "Bread", order.Items[0].MenuItem.Name)

	// 2 units x 2 kg of flour each.
	assert.True(t, f.stockOf(t, flour).Equal(decimal.RequireFromString("6")))

	entries, err := f.inventory.ListTransactionsForIngredient(f.outlet.ID, flour.Slug)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, inventory.TransactionTypeUsage, entries[0].TransactionType)
	assert.True(t, entries[0].Quantity.Equal(decimal.RequireFromString("4")))
	assert.Contains(t, entries[0].Note, order.Slug)
}

func TestCreateOrderInsufficientStockRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	f.grantInventory(t)

	bread := f.addMenuItem(t, "Bread", "4.50")
	flour := f.addIngredient(t, "Flour", "10")
	cheese := f.addIngredient(t, "Cheese", "1")
	f.addRecipe(t, bread, flour, "2")
	f.addRecipe(t, bread, cheese, "1")

	// Two units need 2 kg of cheese, only 1 is on hand. The flour posting
	// happens first and must be rolled back with the rest.
	_, err := f.orders.CreateOrder(context.Background(), f.outlet.ID, &ordering.CreateOrderRequest{
		Items: []ordering.OrderLineRequest{{ItemSlug: bread.Slug, Quantity: 2}},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))

	var orderCount, itemCount, ledgerCount int64
	require.NoError(t, f.db.Model(&ordering.Order{}).Count(&orderCount).Error)
	require.NoError(t, f.db.Model(&ordering.OrderItem{}).Count(&itemCount).Error)
	require.NoError(t, f.db.Model(&inventory.Transaction{}).Count(&ledgerCount).Error)
	assert.Equal(t, int64(0), orderCount)
	assert.Equal(t, int64(0), itemCount)
	assert.Equal(t, int64(0), ledgerCount)

	assert.True(t, f.stockOf(t, flour).Equal(decimal.RequireFromString("10")))
	assert.True(t, f.stockOf(t, cheese).Equal(decimal.RequireFromString("1")))
}

func TestCreateOrderSnapshotsPrices(t *testing.T) {
	f := newFixture(t)
	f.grantInventory(t)

	bread := f.addMenuItem(t, "Bread", "4.50")

	order, err := f.orders.CreateOrder(context.Background(), f.outlet.ID, &ordering.CreateOrderRequest{
		Items: []ordering.OrderLineRequest{{ItemSlug: bread.Slug, Quantity: 1}},
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("9.99")
	_, err = f.menu.UpdateItem(f.outlet.ID, bread.Slug, &menu.UpdateItemRequest{Price: &newPrice})
	require.NoError(t, err)

	reloaded, err := f.orders.GetOrder(f.outlet.ID, order.Slug)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.True(t, reloaded.Items[0].Price.Equal(decimal.RequireFromString("4.50")))
	assert.True(t, reloaded.TotalAmount.Equal(decimal.RequireFromString("4.50")))
}

func TestCreateOrderWithoutInventoryFeatureSkipsPostings(t *testing.T) {
	f := newFixture(t)
	// Feature exists but is never granted to this outlet.
	_, err := f.features.CreateFeature(&feature.CreateFeatureRequest{
		Code: feature.CodeInventory,
		Name: "Inventory Ledger",
	})
	require.NoError(t, err)

	bread := f.addMenuItem(t, "Bread", "4.50")
	flour := f.addIngredient(t, "Flour", "10")
	f.addRecipe(t, bread, flour, "2")

	order, err := f.orders.CreateOrder(context.Background(), f.outlet.ID, &ordering.CreateOrderRequest{
		Items: []ordering.OrderLineRequest{{ItemSlug: bread.Slug, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, ordering.StatusPending, order.Status)

	// The order commits, the ledger stays untouched.
	assert.True(t, f.stockOf(t, flour).Equal(decimal.RequireFromString("10")))

	var ledgerCount int64
	require.NoError(t, f.db.Model(&inventory.Transaction{}).Count(&ledgerCount).Error)
	assert.Equal(t, int64(0), ledgerCount)
}

func TestCreateOrderUnknownItem(t *testing.T) {
	f := newFixture(t)
	f.grantInventory(t)

	_, err := f.orders.CreateOrder(context.Background(), f.outlet.ID, &ordering.CreateOrderRequest{
		Items: []ordering.OrderLineRequest{{ItemSlug: "no-such-item", Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateOrderOtherOutletItemInvisible(t *testing.T) {
	f := newFixture(t)
	f.grantInventory(t)

	bread := f.addMenuItem(t, "Bread", "4.50")

	_, err := f.orders.CreateOrder(context.Background(), f.outlet.ID+1, &ordering.CreateOrderRequest{
		Items: []ordering.OrderLineRequest{{ItemSlug: bread.Slug, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestConcurrentOrdersOneSucceeds(t *testing.T) {
	f := newFixture(t)
	f.grantInventory(t)

	bread := f.addMenuItem(t, "Bread", "4.50")
	flour := f.addIngredient(t, "Flour", "10")
	f.addRecipe(t, bread, flour, "6")

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.orders.CreateOrder(context.Background(), f.outlet.ID, &ordering.CreateOrderRequest{
				Items: []ordering.OrderLineRequest{{ItemSlug: bread.Slug, Quantity: 1}},
			})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range results {
		if err != nil {
			assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of two concurrent orders must fail")

	assert.True(t, f.stockOf(t, flour).Equal(decimal.RequireFromString("4")), "final stock %s", f.stockOf(t, flour))

	var orderCount int64
	require.NoError(t, f.db.Model(&ordering.Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(1), orderCount)
}

func TestOrderStatusFlow(t *testing.T) {
	f := newFixture(t)
	f.grantInventory(t)

	bread := f.addMenuItem(t, "Bread", "4.50")
	order, err := f.orders.CreateOrder(context.Background(), f.outlet.ID, &ordering.CreateOrderRequest{
		Items: []ordering.OrderLineRequest{{ItemSlug: bread.Slug, Quantity: 1}},
	})
	require.NoError(t, err)

	for _, next := range []ordering.Status{ordering.StatusPreparing, ordering.StatusReady, ordering.StatusDelivered} {
		updated, err := f.orders.UpdateStatus(f.outlet.ID, order.Slug, &ordering.UpdateStatusRequest{Status: next})
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	t.Run("delivered is terminal", func(t *testing.T) {
		_, err := f.orders.UpdateStatus(f.outlet.ID, order.Slug, &ordering.UpdateStatusRequest{Status: ordering.StatusCancelled})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("pending cannot skip to delivered", func(t *testing.T) {
		second, err := f.orders.CreateOrder(context.Background(), f.outlet.ID, &ordering.CreateOrderRequest{
			Items: []ordering.OrderLineRequest{{ItemSlug: bread.Slug, Quantity: 1}},
		})
		require.NoError(t, err)

		_, err = f.orders.UpdateStatus(f.outlet.ID, second.Slug, &ordering.UpdateStatusRequest{Status: ordering.StatusDelivered})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}
