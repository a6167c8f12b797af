// internal/domain/inventory/service_test.go
package inventory_test

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/inventory"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/restaurant-backend/internal/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testOutletID uint = 1

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps every goroutine on the same in-memory database
	// and serializes concurrent transactions.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	for _, model := range postgres.Models() {
		require.NoError(t, db.AutoMigrate(model))
	}

	return db
}

func newTestService(t *testing.T) (*inventory.Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return inventory.NewService(db, &config.Config{}), db
}

func createIngredient(t *testing.T, svc *inventory.Service, name string, stock string) *inventory.Ingredient {
	t.Helper()
	ingredient, err := svc.CreateIngredient(testOutletID, &inventory.CreateIngredientRequest{
		Name:         name,
		Unit:         inventory.UnitKilogram,
		CurrentStock: decimal.RequireFromString(stock),
	})
	require.NoError(t, err)
	return ingredient
}

func ledgerCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&inventory.Transaction{}).Count(&count).Error)
	return count
}

func TestCreateIngredient(t *testing.T) {
	svc, _ := newTestService(t)

	ingredient := createIngredient(t, svc, "Flour", "10")
	assert.Equal(t, "Flour", ingredient.Name)
	assert.True(t, ingredient.IsActive)
	assert.NotEmpty(t, ingredient.Slug)

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := svc.CreateIngredient(testOutletID, &inventory.CreateIngredientRequest{
			Name: "Flour",
			Unit: inventory.UnitKilogram,
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))
	})

	t.Run("same name allowed in another outlet", func(t *testing.T) {
		_, err := svc.CreateIngredient(testOutletID+1, &inventory.CreateIngredientRequest{
			Name: "Flour",
			Unit: inventory.UnitKilogram,
		})
		require.NoError(t, err)
	})

	t.Run("unknown unit rejected", func(t *testing.T) {
		_, err := svc.CreateIngredient(testOutletID, &inventory.CreateIngredientRequest{
			Name: "Sugar",
			Unit: inventory.Unit("bags"),
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("negative initial stock rejected", func(t *testing.T) {
		_, err := svc.CreateIngredient(testOutletID, &inventory.CreateIngredientRequest{
			Name:         "Salt",
			Unit:         inventory.UnitGram,
			CurrentStock: decimal.RequireFromString("-1"),
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestIngredientTenantScoping(t *testing.T) {
	svc, _ := newTestService(t)

	ingredient := createIngredient(t, svc, "Flour", "10")

	_, err := svc.GetIngredient(testOutletID+1, ingredient.Slug)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestPurchaseThenUsage(t *testing.T) {
	svc, _ := newTestService(t)
	ingredient := createIngredient(t, svc, "Flour", "0")

	purchase, err := svc.PostTransaction(testOutletID, &inventory.PostTransactionRequest{
		IngredientSlug:  ingredient.Slug,
		TransactionType: inventory.TransactionTypePurchase,
		Quantity:        decimal.RequireFromString("10"),
		Note:            "weekly delivery",
	})
	require.NoError(t, err)
	assert.True(t, purchase.PreviousStock.Equal(decimal.Zero), "previous stock %s", purchase.PreviousStock)
	assert.True(t, purchase.NewStock.Equal(decimal.RequireFromString("10")), "new stock %s", purchase.NewStock)

	usage, err := svc.PostTransaction(testOutletID, &inventory.PostTransactionRequest{
		IngredientSlug:  ingredient.Slug,
		TransactionType: inventory.TransactionTypeUsage,
		Quantity:        decimal.RequireFromString("4"),
	})
	require.NoError(t, err)
	assert.True(t, usage.PreviousStock.Equal(decimal.RequireFromString("10")))
	assert.True(t, usage.NewStock.Equal(decimal.RequireFromString("6")))

	reloaded, err := svc.GetIngredient(testOutletID, ingredient.Slug)
	require.NoError(t, err)
	assert.True(t, reloaded.CurrentStock.Equal(decimal.RequireFromString("6")))

	entries, err := svc.ListTransactionsForIngredient(testOutletID, ingredient.Slug)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, inventory.TransactionTypePurchase, entries[0].TransactionType)
	assert.Equal(t, inventory.TransactionTypeUsage, entries[1].TransactionType)
}

func TestUsageInsufficientStockPersistsNothing(t *testing.T) {
	svc, db := newTestService(t)
	ingredient := createIngredient(t, svc, "Flour", "5")

	_, err := svc.PostTransaction(testOutletID, &inventory.PostTransactionRequest{
		IngredientSlug:  ingredient.Slug,
		TransactionType: inventory.TransactionTypeUsage,
		Quantity:        decimal.RequireFromString("6"),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))

	// The rejected posting must leave no trace: no ledger entry, balance intact.
	assert.Equal(t, int64(0), ledgerCount(t, db))

	reloaded, err := svc.GetIngredient(testOutletID, ingredient.Slug)
	require.NoError(t, err)
	assert.True(t, reloaded.CurrentStock.Equal(decimal.RequireFromString("5")))
}

func TestWastageDeductsStock(t *testing.T) {
	svc, _ := newTestService(t)
	ingredient := createIngredient(t, svc, "Milk", "3.50")

	entry, err := svc.PostTransaction(testOutletID, &inventory.PostTransactionRequest{
		IngredientSlug:  ingredient.Slug,
		TransactionType: inventory.TransactionTypeWastage,
		Quantity:        decimal.RequireFromString("1.25"),
		Note:            "spoiled",
	})
	require.NoError(t, err)
	assert.True(t, entry.NewStock.Equal(decimal.RequireFromString("2.25")))
}

func TestAdjustmentSetsAbsoluteBalance(t *testing.T) {
	svc, _ := newTestService(t)
	ingredient := createIngredient(t, svc, "Flour", "7")

	entry, err := svc.PostTransaction(testOutletID, &inventory.PostTransactionRequest{
		IngredientSlug:  ingredient.Slug,
		TransactionType: inventory.TransactionTypeAdjustment,
		Quantity:        decimal.RequireFromString("3"),
		Note:            "stocktake correction",
	})
	require.NoError(t, err)
	assert.True(t, entry.PreviousStock.Equal(decimal.RequireFromString("7")))
	assert.True(t, entry.NewStock.Equal(decimal.RequireFromString("3")))

	reloaded, err := svc.GetIngredient(testOutletID, ingredient.Slug)
	require.NoError(t, err)
	assert.True(t, reloaded.CurrentStock.Equal(decimal.RequireFromString("3")))
}

func TestNegativeAdjustmentRejected(t *testing.T) {
	svc, db := newTestService(t)
	ingredient := createIngredient(t, svc, "Flour", "7")

	_, err := svc.PostTransaction(testOutletID, &inventory.PostTransactionRequest{
		IngredientSlug:  ingredient.Slug,
		TransactionType: inventory.TransactionTypeAdjustment,
		Quantity:        decimal.RequireFromString("-2"),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidAdjustment, apperr.KindOf(err))
	assert.Equal(t, int64(0), ledgerCount(t, db))
}

func TestNonPositiveQuantityRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ingredient := createIngredient(t, svc, "Flour", "7")

	for _, txType := range []inventory.TransactionType{
		inventory.TransactionTypePurchase,
		inventory.TransactionTypeUsage,
		inventory.TransactionTypeWastage,
	} {
		_, err := svc.PostTransaction(testOutletID, &inventory.PostTransactionRequest{
			IngredientSlug:  ingredient.Slug,
			TransactionType: txType,
			Quantity:        decimal.Zero,
		})
		require.Error(t, err, "type %s", txType)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
}

func TestAdminStockOverride(t *testing.T) {
	svc, db := newTestService(t)
	ingredient := createIngredient(t, svc, "Flour", "7")

	override := decimal.RequireFromString("12")
	updated, err := svc.UpdateIngredient(testOutletID, ingredient.Slug, &inventory.UpdateIngredientRequest{
		CurrentStock: &override,
	})
	require.NoError(t, err)
	assert.True(t, updated.CurrentStock.Equal(override))

	// The override is not a ledger event.
	assert.Equal(t, int64(0), ledgerCount(t, db))

	t.Run("negative override rejected", func(t *testing.T) {
		negative := decimal.RequireFromString("-1")
		_, err := svc.UpdateIngredient(testOutletID, ingredient.Slug, &inventory.UpdateIngredientRequest{
			CurrentStock: &negative,
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidAdjustment, apperr.KindOf(err))
	})
}

func TestDeleteIngredientBlockedByRecipe(t *testing.T) {
	svc, db := newTestService(t)
	ingredient := createIngredient(t, svc, "Flour", "10")

	item := menu.Item{Name: "Bread", Price: decimal.RequireFromString("4.50"), OutletID: testOutletID, Slug: "bread-slug"}
	require.NoError(t, db.Create(&item).Error)

	entry, err := svc.AddRecipeEntry(testOutletID, &inventory.AddRecipeEntryRequest{
		MenuItemSlug:   item.Slug,
		IngredientSlug: ingredient.Slug,
		Quantity:       decimal.RequireFromString("0.5"),
	})
	require.NoError(t, err)

	err = svc.DeleteIngredient(testOutletID, ingredient.Slug)
	require.Error(t, err)
	assert.Equal(t, apperr.KindReferenced, apperr.KindOf(err))

	require.NoError(t, svc.DeleteRecipeEntry(testOutletID, entry.Slug))
	require.NoError(t, svc.DeleteIngredient(testOutletID, ingredient.Slug))
}

func TestRecipeEntries(t *testing.T) {
	svc, db := newTestService(t)
	flour := createIngredient(t, svc, "Flour", "10")
	water := createIngredient(t, svc, "Water", "100")

	item := menu.Item{Name: "Bread", Price: decimal.RequireFromString("4.50"), OutletID: testOutletID, Slug: "bread-slug"}
	require.NoError(t, db.Create(&item).Error)

	first, err := svc.AddRecipeEntry(testOutletID, &inventory.AddRecipeEntryRequest{
		MenuItemSlug:   item.Slug,
		IngredientSlug: flour.Slug,
		Quantity:       decimal.RequireFromString("0.5"),
	})
	require.NoError(t, err)

	_, err = svc.AddRecipeEntry(testOutletID, &inventory.AddRecipeEntryRequest{
		MenuItemSlug:   item.Slug,
		IngredientSlug: water.Slug,
		Quantity:       decimal.RequireFromString("0.3"),
	})
	require.NoError(t, err)

	t.Run("duplicate pair rejected", func(t *testing.T) {
		_, err := svc.AddRecipeEntry(testOutletID, &inventory.AddRecipeEntryRequest{
			MenuItemSlug:   item.Slug,
			IngredientSlug: flour.Slug,
			Quantity:       decimal.RequireFromString("1"),
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))
	})

	t.Run("missing ingredient rejected", func(t *testing.T) {
		_, err := svc.AddRecipeEntry(testOutletID, &inventory.AddRecipeEntryRequest{
			MenuItemSlug:   item.Slug,
			IngredientSlug: "no-such-ingredient",
			Quantity:       decimal.RequireFromString("1"),
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("list resolves ingredients", func(t *testing.T) {
		entries, err := svc.ListRecipeForMenuItem(testOutletID, item.Slug)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "Flour", entries[0].Ingredient.Name)
		assert.Equal(t, "Water", entries[1].Ingredient.Name)
	})

	t.Run("update quantity", func(t *testing.T) {
		quantity := decimal.RequireFromString("0.75")
		updated, err := svc.UpdateRecipeEntry(testOutletID, first.Slug, &inventory.UpdateRecipeEntryRequest{
			Quantity: &quantity,
		})
		require.NoError(t, err)
		assert.True(t, updated.Quantity.Equal(quantity))
	})

	t.Run("other outlet cannot touch entry", func(t *testing.T) {
		err := svc.DeleteRecipeEntry(testOutletID+1, first.Slug)
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestLedgerEditNeverRebalances(t *testing.T) {
	svc, _ := newTestService(t)
	ingredient := createIngredient(t, svc, "Flour", "0")

	entry, err := svc.PostTransaction(testOutletID, &inventory.PostTransactionRequest{
		IngredientSlug:  ingredient.Slug,
		TransactionType: inventory.TransactionTypePurchase,
		Quantity:        decimal.RequireFromString("10"),
	})
	require.NoError(t, err)

	quantity := decimal.RequireFromString("99")
	note := "corrected paperwork"
	updated, err := svc.UpdateTransaction(testOutletID, entry.Slug, &inventory.UpdateTransactionRequest{
		Quantity: &quantity,
		Note:     &note,
	})
	require.NoError(t, err)
	assert.True(t, updated.Quantity.Equal(quantity))

	// The balance stays where the original posting left it.
	reloaded, err := svc.GetIngredient(testOutletID, ingredient.Slug)
	require.NoError(t, err)
	assert.True(t, reloaded.CurrentStock.Equal(decimal.RequireFromString("10")))

	require.NoError(t, svc.DeleteTransaction(testOutletID, entry.Slug))

	reloaded, err = svc.GetIngredient(testOutletID, ingredient.Slug)
	require.NoError(t, err)
	assert.True(t, reloaded.CurrentStock.Equal(decimal.RequireFromString("10")))
}

func TestConcurrentUsageOneSucceeds(t *testing.T) {
	svc, db := newTestService(t)
	ingredient := createIngredient(t, svc, "Flour", "10")

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.PostTransaction(testOutletID, &inventory.PostTransactionRequest{
				IngredientSlug:  ingredient.Slug,
				TransactionType: inventory.TransactionTypeUsage,
				Quantity:        decimal.RequireFromString("6"),
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
	assert.Equal(t, 1, failures, "exactly one of two concurrent deductions must fail")

	reloaded, err := svc.GetIngredient(testOutletID, ingredient.Slug)
	require.NoError(t, err)
	assert.True(t, reloaded.CurrentStock.Equal(decimal.RequireFromString("4")), "final stock %s", reloaded.CurrentStock)
	assert.Equal(t, int64(1), ledgerCount(t, db))
}
