package gorm

import (
	"context"

	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/quantity"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"gorm.io/gorm"
)

const batchSize = 100

// PantryRepository implements the pantry repository interface using GORM
type PantryRepository struct {
	db *gorm.DB
}

// NewPantryRepository creates a new pantry repository
func NewPantryRepository(db *gorm.DB) outbound.PantryRepository {
	return &PantryRepository{db: db}
}

// Insert creates a pantry item and writes back its id and creation time
func (r *PantryRepository) Insert(ctx context.Context, item *pantry.Item) error {
	model := PantryItemToModel(item)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}

	item.ID = model.ID
	item.CreatedAt = model.CreatedAt
	return nil
}

// BulkInsert creates many items in batches
func (r *PantryRepository) BulkInsert(ctx context.Context, items []*pantry.Item) error {
	if len(items) == 0 {
		return nil
	}
	models := make([]*PantryItemModel, len(items))
	for i, item := range items {
		models[i] = PantryItemToModel(item)
	}

	result := r.db.WithContext(ctx).CreateInBatches(models, batchSize)
	if result.Error != nil {
		return result.Error
	}

	for i, model := range models {
		items[i].ID = model.ID
		items[i].CreatedAt = model.CreatedAt
	}
	return nil
}

// Update overwrites every column of an existing item
func (r *PantryRepository) Update(ctx context.Context, item *pantry.Item) error {
	model := PantryItemToModel(item)

	result := r.db.WithContext(ctx).Model(model).Select("*").Updates(model)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}

	return nil
}

// Delete deletes an item by ID and reports whether a row was removed
func (r *PantryRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&PantryItemModel{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// BulkDelete deletes the given ids and returns how many existed
func (r *PantryRepository) BulkDelete(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Delete(&PantryItemModel{}, "id IN ?", ids)
	return result.RowsAffected, result.Error
}

// FindByID finds a pantry item by ID
func (r *PantryRepository) FindByID(ctx context.Context, id uint64) (*pantry.Item, error) {
	var model PantryItemModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		return nil, notFoundOr(result.Error)
	}

	return ModelToPantryItem(&model), nil
}

// FindByName finds the oldest item whose name matches case-insensitively
func (r *PantryRepository) FindByName(ctx context.Context, name string) (*pantry.Item, error) {
	var model PantryItemModel

	result := r.db.WithContext(ctx).
		Where("name_key = ?", quantity.NameKey(name)).
		Order("id").
		First(&model)
	if result.Error != nil {
		return nil, notFoundOr(result.Error)
	}

	return ModelToPantryItem(&model), nil
}

// List returns the items matching q
func (r *PantryRepository) List(ctx context.Context, q outbound.PantryQuery) ([]*pantry.Item, error) {
	var models []PantryItemModel

	query := r.db.WithContext(ctx).Model(&PantryItemModel{})
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Search != "" {
		query = query.Where("name_key LIKE ?", "%"+quantity.NameKey(q.Search)+"%")
	}
	if q.ExpiringBefore != "" {
		query = query.Where("expiry_date IS NOT NULL AND expiry_date <> '' AND expiry_date <= ?", q.ExpiringBefore)
	}

	switch q.OrderBy {
	case "expiryDate":
		query = query.Order("expiry_date IS NULL, expiry_date, name_key")
	case "createdAt":
		query = query.Order("created_at DESC, id DESC")
	case "category":
		query = query.Order("category, name_key")
	default:
		query = query.Order("name_key, id")
	}

	if result := query.Find(&models); result.Error != nil {
		return nil, result.Error
	}

	items := make([]*pantry.Item, len(models))
	for i := range models {
		items[i] = ModelToPantryItem(&models[i])
	}
	return items, nil
}

// Clear removes every pantry item
func (r *PantryRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&PantryItemModel{}).Error
}
