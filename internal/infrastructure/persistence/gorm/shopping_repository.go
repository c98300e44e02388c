package gorm

import (
	"context"
	"database/sql"

	"github.com/alchemorsel/kitchen/internal/domain/quantity"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"gorm.io/gorm"
)

// ShoppingListRepository implements the shopping list repository interface using GORM
type ShoppingListRepository struct {
	db *gorm.DB
}

// NewShoppingListRepository creates a new shopping list repository
func NewShoppingListRepository(db *gorm.DB) outbound.ShoppingListRepository {
	return &ShoppingListRepository{db: db}
}

// Insert creates a new item
func (r *ShoppingListRepository) Insert(ctx context.Context, item *shopping.Item) error {
	model := ShoppingItemToModel(item)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}

	item.ID = model.ID
	return nil
}

// BulkInsert creates many items in batches
func (r *ShoppingListRepository) BulkInsert(ctx context.Context, items []*shopping.Item) error {
	if len(items) == 0 {
		return nil
	}
	models := make([]*ShoppingListItemModel, len(items))
	for i, item := range items {
		models[i] = ShoppingItemToModel(item)
	}

	result := r.db.WithContext(ctx).CreateInBatches(models, batchSize)
	if result.Error != nil {
		return result.Error
	}

	for i, model := range models {
		items[i].ID = model.ID
	}
	return nil
}

// Update overwrites an existing item
func (r *ShoppingListRepository) Update(ctx context.Context, item *shopping.Item) error {
	model := ShoppingItemToModel(item)

	result := r.db.WithContext(ctx).Model(model).Select("*").Updates(model)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}

	return nil
}

// Delete deletes an item by ID
func (r *ShoppingListRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&ShoppingListItemModel{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// BulkDelete deletes the given ids
func (r *ShoppingListRepository) BulkDelete(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Delete(&ShoppingListItemModel{}, "id IN ?", ids)
	return result.RowsAffected, result.Error
}

// DeleteChecked removes every checked item
func (r *ShoppingListRepository) DeleteChecked(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&ShoppingListItemModel{}, "is_checked = ?", true)
	return result.RowsAffected, result.Error
}

// FindByID finds an item by ID
func (r *ShoppingListRepository) FindByID(ctx context.Context, id uint64) (*shopping.Item, error) {
	var model ShoppingListItemModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		return nil, notFoundOr(result.Error)
	}

	return ModelToShoppingItem(&model), nil
}

// FindByName finds the oldest item whose name matches case-insensitively
func (r *ShoppingListRepository) FindByName(ctx context.Context, name string) (*shopping.Item, error) {
	var model ShoppingListItemModel

	result := r.db.WithContext(ctx).
		Where("name_key = ?", quantity.NameKey(name)).
		Order("id").
		First(&model)
	if result.Error != nil {
		return nil, notFoundOr(result.Error)
	}

	return ModelToShoppingItem(&model), nil
}

// List returns items ordered by category and sort order
func (r *ShoppingListRepository) List(ctx context.Context, q outbound.ShoppingQuery) ([]*shopping.Item, error) {
	var models []ShoppingListItemModel

	query := r.db.WithContext(ctx).Model(&ShoppingListItemModel{})
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Checked != nil {
		query = query.Where("is_checked = ?", *q.Checked)
	}

	result := query.Order("category").Order("sort_order").Order("id").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	items := make([]*shopping.Item, len(models))
	for i := range models {
		items[i] = ModelToShoppingItem(&models[i])
	}
	return items, nil
}

// MaxSortOrder returns the largest sort order; ok is false for an empty list
func (r *ShoppingListRepository) MaxSortOrder(ctx context.Context) (float64, bool, error) {
	var max sql.NullFloat64
	result := r.db.WithContext(ctx).Model(&ShoppingListItemModel{}).Select("MAX(sort_order)").Scan(&max)
	if result.Error != nil {
		return 0, false, result.Error
	}
	return max.Float64, max.Valid, nil
}

// Categories returns the distinct categories in use
func (r *ShoppingListRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	result := r.db.WithContext(ctx).Model(&ShoppingListItemModel{}).
		Distinct().
		Order("category").
		Pluck("category", &categories)
	return categories, result.Error
}

// RenameCategory retags all items of oldName in a single UPDATE, so readers never
// see a mix of old and new values
func (r *ShoppingListRepository) RenameCategory(ctx context.Context, oldName, newName string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&ShoppingListItemModel{}).
		Where("category = ?", oldName).
		Update("category", newName)
	return result.RowsAffected, result.Error
}

// Clear removes every item
func (r *ShoppingListRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ShoppingListItemModel{}).Error
}
