// internal/domain/inventory/service.go
package inventory

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/pkg/apperr"
	"github.com/your-org/restaurant-backend/internal/pkg/slug"
	"gorm.io/gorm"
)

// Service handles the ingredient registry, the recipe map and the stock
// ledger. It is the only writer of Ingredient.CurrentStock.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new inventory service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateIngredientRequest represents ingredient creation data
type CreateIngredientRequest struct {
	Name         string          `json:"name" binding:"required"`
	Unit         Unit            `json:"unit" binding:"required"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
}

// UpdateIngredientRequest represents ingredient update data. CurrentStock
// is the administrative stock override; it goes through the same
// non-negativity check as ledger adjustments but creates no ledger entry.
type UpdateIngredientRequest struct {
	Name         *string          `json:"name,omitempty"`
	Unit         *Unit            `json:"unit,omitempty"`
	CurrentStock *decimal.Decimal `json:"current_stock,omitempty"`
	MinimumStock *decimal.Decimal `json:"minimum_stock,omitempty"`
}

// AddRecipeEntryRequest represents recipe map creation data
type AddRecipeEntryRequest struct {
	MenuItemSlug   string          `json:"menu_item_slug" binding:"required"`
	IngredientSlug string          `json:"ingredient_slug" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
}

// UpdateRecipeEntryRequest represents recipe map update data
type UpdateRecipeEntryRequest struct {
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
}

// PostTransactionRequest represents a stock ledger posting
type PostTransactionRequest struct {
	IngredientSlug  string          `json:"ingredient_slug" binding:"required"`
	TransactionType TransactionType `json:"transaction_type" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	Note            string          `json:"note,omitempty"`
}

// UpdateTransactionRequest represents an administrative ledger edit.
// Edits never re-derive the ingredient balance.
type UpdateTransactionRequest struct {
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Note     *string          `json:"note,omitempty"`
}

// INGREDIENT REGISTRY

// CreateIngredient creates a new ingredient for an outlet
func (s *Service) CreateIngredient(outletID uint, req *CreateIngredientRequest) (*Ingredient, error) {
	if !req.Unit.IsValid() {
		return nil, apperr.Validation("unknown unit '%s'", req.Unit)
	}
	if req.CurrentStock.IsNegative() || req.MinimumStock.IsNegative() {
		return nil, apperr.Validation("stock values cannot be negative")
	}

	var existing Ingredient
	if err := s.db.Where("outlet_id = ? AND name = ?", outletID, req.Name).First(&existing).Error; err == nil {
		return nil, apperr.Duplicate("ingredient '%s' already exists", req.Name)
	}

	ingredient := &Ingredient{
		Name:         req.Name,
		OutletID:     outletID,
		Unit:         req.Unit,
		CurrentStock: req.CurrentStock,
		MinimumStock: req.MinimumStock,
		IsActive:     true,
		Slug:         slug.New(),
	}

	if err := s.db.Create(ingredient).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to create ingredient")
	}

	return ingredient, nil
}

// GetIngredient retrieves an ingredient by slug within an outlet
func (s *Service) GetIngredient(outletID uint, ingredientSlug string) (*Ingredient, error) {
	return s.getIngredient(s.db, outletID, ingredientSlug)
}

func (s *Service) getIngredient(db *gorm.DB, outletID uint, ingredientSlug string) (*Ingredient, error) {
	var ingredient Ingredient
	err := db.Where("slug = ? AND outlet_id = ?", ingredientSlug, outletID).First(&ingredient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("ingredient not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve ingredient")
	}
	return &ingredient, nil
}

// ListIngredients retrieves all ingredients of an outlet
func (s *Service) ListIngredients(outletID uint) ([]Ingredient, error) {
	var ingredients []Ingredient
	if err := s.db.Where("outlet_id = ?", outletID).Order("name").Find(&ingredients).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve ingredients")
	}
	return ingredients, nil
}

// UpdateIngredient mutates editable fields of an ingredient
func (s *Service) UpdateIngredient(outletID uint, ingredientSlug string, req *UpdateIngredientRequest) (*Ingredient, error) {
	ingredient, err := s.GetIngredient(outletID, ingredientSlug)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		var existing Ingredient
		if err := s.db.Where("outlet_id = ? AND name = ? AND id <> ?", outletID, *req.Name, ingredient.ID).
			First(&existing).Error; err == nil {
			return nil, apperr.Duplicate("ingredient '%s' already exists", *req.Name)
		}
		ingredient.Name = *req.Name
	}
	if req.Unit != nil {
		if !req.Unit.IsValid() {
			return nil, apperr.Validation("unknown unit '%s'", *req.Unit)
		}
		ingredient.Unit = *req.Unit
	}
	if req.MinimumStock != nil {
		if req.MinimumStock.IsNegative() {
			return nil, apperr.Validation("minimum stock cannot be negative")
		}
		ingredient.MinimumStock = *req.MinimumStock
	}
	if req.CurrentStock != nil {
		if err := checkAbsoluteStock(*req.CurrentStock, ingredient.Name); err != nil {
			return nil, err
		}
		ingredient.CurrentStock = *req.CurrentStock
	}

	if err := s.db.Save(ingredient).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to update ingredient")
	}

	return ingredient, nil
}

// SetIngredientActive soft-enables or soft-disables an ingredient
func (s *Service) SetIngredientActive(outletID uint, ingredientSlug string, active bool) (*Ingredient, error) {
	ingredient, err := s.GetIngredient(outletID, ingredientSlug)
	if err != nil {
		return nil, err
	}

	ingredient.IsActive = active
	if err := s.db.Save(ingredient).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to update ingredient active status")
	}

	return ingredient, nil
}

// DeleteIngredient deletes an ingredient. Historical ledger entries keep
// their rows; active recipe references block the delete.
func (s *Service) DeleteIngredient(outletID uint, ingredientSlug string) error {
	ingredient, err := s.GetIngredient(outletID, ingredientSlug)
	if err != nil {
		return err
	}

	var refs int64
	if err := s.db.Model(&RecipeEntry{}).Where("ingredient_id = ?", ingredient.ID).Count(&refs).Error; err != nil {
		return apperr.Persistence(err, "failed to check recipe references")
	}
	if refs > 0 {
		return apperr.Referenced("ingredient '%s' is used by %d recipe entries", ingredient.Name, refs)
	}

	if err := s.db.Delete(ingredient).Error; err != nil {
		return apperr.Persistence(err, "failed to delete ingredient")
	}
	return nil
}

// RECIPE MAP

// ListRecipeForMenuItem retrieves the recipe entries of a menu item in
// creation order, with their ingredients resolved.
func (s *Service) ListRecipeForMenuItem(outletID uint, menuItemSlug string) ([]RecipeEntry, error) {
	menuItem, err := s.getMenuItem(outletID, menuItemSlug)
	if err != nil {
		return nil, err
	}

	var entries []RecipeEntry
	if err := s.db.Preload("Ingredient").Where("menu_item_id = ?", menuItem.ID).
		Order("created_at").Find(&entries).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to list recipe entries")
	}
	return entries, nil
}

// AddRecipeEntry maps an ingredient to a menu item
func (s *Service) AddRecipeEntry(outletID uint, req *AddRecipeEntryRequest) (*RecipeEntry, error) {
	if req.Quantity.IsNegative() {
		return nil, apperr.Validation("recipe quantity cannot be negative")
	}

	menuItem, err := s.getMenuItem(outletID, req.MenuItemSlug)
	if err != nil {
		return nil, err
	}
	ingredient, err := s.GetIngredient(outletID, req.IngredientSlug)
	if err != nil {
		return nil, err
	}

	var existing RecipeEntry
	if err := s.db.Where("menu_item_id = ? AND ingredient_id = ?", menuItem.ID, ingredient.ID).
		First(&existing).Error; err == nil {
		return nil, apperr.Duplicate("recipe entry for this menu item and ingredient already exists")
	}

	entry := &RecipeEntry{
		MenuItemID:   menuItem.ID,
		IngredientID: ingredient.ID,
		Quantity:     req.Quantity,
		Slug:         slug.New(),
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to create recipe entry")
	}
	entry.Ingredient = *ingredient

	return entry, nil
}

// UpdateRecipeEntry mutates a recipe entry's per-unit quantity
func (s *Service) UpdateRecipeEntry(outletID uint, entrySlug string, req *UpdateRecipeEntryRequest) (*RecipeEntry, error) {
	entry, err := s.getRecipeEntry(outletID, entrySlug)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if req.Quantity.IsNegative() {
			return nil, apperr.Validation("recipe quantity cannot be negative")
		}
		entry.Quantity = *req.Quantity
	}

	if err := s.db.Save(entry).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to update recipe entry")
	}
	return entry, nil
}

// DeleteRecipeEntry removes an ingredient from a menu item's recipe
func (s *Service) DeleteRecipeEntry(outletID uint, entrySlug string) error {
	entry, err := s.getRecipeEntry(outletID, entrySlug)
	if err != nil {
		return err
	}
	if err := s.db.Delete(entry).Error; err != nil {
		return apperr.Persistence(err, "failed to delete recipe entry")
	}
	return nil
}

func (s *Service) getRecipeEntry(outletID uint, entrySlug string) (*RecipeEntry, error) {
	var entry RecipeEntry
	err := s.db.Preload("Ingredient").
		Joins("JOIN ingredients ON ingredients.id = recipe_entries.ingredient_id").
		Where("recipe_entries.slug = ? AND ingredients.outlet_id = ?", entrySlug, outletID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("recipe entry not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve recipe entry")
	}
	return &entry, nil
}

func (s *Service) getMenuItem(outletID uint, menuItemSlug string) (*menu.Item, error) {
	var item menu.Item
	err := s.db.Where("slug = ? AND outlet_id = ?", menuItemSlug, outletID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("menu item not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve menu item")
	}
	return &item, nil
}

// STOCK LEDGER

// PostTransaction appends a ledger entry and recomputes the ingredient
// balance as one atomic unit.
func (s *Service) PostTransaction(outletID uint, req *PostTransactionRequest) (*Transaction, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	ingredient, err := s.getIngredient(tx, outletID, req.IngredientSlug)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	entry, err := s.PostInTx(tx, outletID, ingredient, req.TransactionType, req.Quantity, req.Note)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperr.Persistence(err, "failed to commit transaction")
	}
	return entry, nil
}

// PostInTx appends a ledger entry inside the caller's transaction. The
// balance mutation is an atomic guarded UPDATE so concurrent postings
// against the same ingredient cannot both pass the stock check on a stale
// reading; a rejected deduction persists nothing.
func (s *Service) PostInTx(tx *gorm.DB, outletID uint, ingredient *Ingredient, txType TransactionType, quantity decimal.Decimal, note string) (*Transaction, error) {
	if !txType.IsValid() {
		return nil, apperr.Validation("unknown transaction type '%s'", txType)
	}

	previous := ingredient.CurrentStock

	switch txType {
	case TransactionTypePurchase:
		if !quantity.IsPositive() {
			return nil, apperr.Validation("quantity must be positive")
		}
		result := tx.Model(&Ingredient{}).Where("id = ?", ingredient.ID).
			UpdateColumn("current_stock", gorm.Expr("current_stock + ?", quantity))
		if result.Error != nil {
			return nil, apperr.Persistence(result.Error, "failed to update stock")
		}

	case TransactionTypeUsage, TransactionTypeWastage:
		if !quantity.IsPositive() {
			return nil, apperr.Validation("quantity must be positive")
		}
		// Guarded decrement: the stock check and the write are one
		// statement, so two concurrent deductions cannot both succeed
		// against the same stale balance.
		result := tx.Model(&Ingredient{}).
			Where("id = ? AND current_stock >= ?", ingredient.ID, quantity).
			UpdateColumn("current_stock", gorm.Expr("current_stock - ?", quantity))
		if result.Error != nil {
			return nil, apperr.Persistence(result.Error, "failed to update stock")
		}
		if result.RowsAffected == 0 {
			return nil, apperr.InsufficientStock(
				"stock for ingredient '%s' cannot go negative: current %s, tried to reduce by %s",
				ingredient.Name, ingredient.CurrentStock.String(), quantity.String())
		}

	case TransactionTypeAdjustment:
		if err := checkAbsoluteStock(quantity, ingredient.Name); err != nil {
			return nil, err
		}
		result := tx.Model(&Ingredient{}).Where("id = ?", ingredient.ID).
			UpdateColumn("current_stock", quantity)
		if result.Error != nil {
			return nil, apperr.Persistence(result.Error, "failed to update stock")
		}
	}

	// Re-read the committed-in-tx balance for the audit columns and the
	// caller's view of the ingredient.
	var refreshed Ingredient
	if err := tx.First(&refreshed, ingredient.ID).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to reload ingredient")
	}
	newStock := refreshed.CurrentStock

	switch txType {
	case TransactionTypePurchase:
		previous = newStock.Sub(quantity)
	case TransactionTypeUsage, TransactionTypeWastage:
		previous = newStock.Add(quantity)
	}

	entry := &Transaction{
		IngredientID:    ingredient.ID,
		OutletID:        outletID,
		TransactionType: txType,
		Quantity:        quantity,
		PreviousStock:   previous,
		NewStock:        newStock,
		Note:            note,
		Slug:            slug.New(),
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to record transaction")
	}

	ingredient.CurrentStock = newStock
	entry.Ingredient = *ingredient

	return entry, nil
}

// ListTransactions retrieves all ledger entries of an outlet in creation order
func (s *Service) ListTransactions(outletID uint) ([]Transaction, error) {
	var entries []Transaction
	if err := s.db.Preload("Ingredient").Where("outlet_id = ?", outletID).
		Order("created_at").Find(&entries).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve transactions")
	}
	return entries, nil
}

// ListTransactionsForIngredient retrieves the ledger entries of one ingredient
func (s *Service) ListTransactionsForIngredient(outletID uint, ingredientSlug string) ([]Transaction, error) {
	ingredient, err := s.GetIngredient(outletID, ingredientSlug)
	if err != nil {
		return nil, err
	}

	var entries []Transaction
	if err := s.db.Preload("Ingredient").Where("ingredient_id = ?", ingredient.ID).
		Order("created_at").Find(&entries).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve transactions")
	}
	return entries, nil
}

// GetTransaction retrieves a single ledger entry by slug
func (s *Service) GetTransaction(outletID uint, entrySlug string) (*Transaction, error) {
	var entry Transaction
	err := s.db.Preload("Ingredient").Where("slug = ? AND outlet_id = ?", entrySlug, outletID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("transaction not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve transaction")
	}
	return &entry, nil
}

// UpdateTransaction is an administrative audit-trail edit. It mutates the
// ledger row only; the ingredient balance is deliberately not re-derived.
func (s *Service) UpdateTransaction(outletID uint, entrySlug string, req *UpdateTransactionRequest) (*Transaction, error) {
	entry, err := s.GetTransaction(outletID, entrySlug)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if req.Quantity.IsNegative() {
			return nil, apperr.Validation("quantity cannot be negative")
		}
		entry.Quantity = *req.Quantity
	}
	if req.Note != nil {
		entry.Note = *req.Note
	}

	if err := s.db.Save(entry).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to update transaction")
	}
	return entry, nil
}

// DeleteTransaction removes a ledger entry without touching the balance
func (s *Service) DeleteTransaction(outletID uint, entrySlug string) error {
	entry, err := s.GetTransaction(outletID, entrySlug)
	if err != nil {
		return err
	}
	if err := s.db.Delete(entry).Error; err != nil {
		return apperr.Persistence(err, "failed to delete transaction")
	}
	return nil
}

// checkAbsoluteStock validates an absolute stock value. Shared by ledger
// adjustments and the administrative stock override so the non-negativity
// rule lives in exactly one place.
func checkAbsoluteStock(value decimal.Decimal, name string) error {
	if value.IsNegative() {
		return apperr.InvalidAdjustment(
			"stock for ingredient '%s' cannot be set to negative value %s", name, value.String())
	}
	return nil
}
