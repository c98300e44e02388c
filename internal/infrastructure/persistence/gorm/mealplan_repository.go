package gorm

import (
	"context"

	"github.com/alchemorsel/kitchen/internal/domain/mealplan"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"gorm.io/gorm"
)

// MealPlanRepository implements the meal plan repository interface using GORM
type MealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *gorm.DB) outbound.MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// Insert creates a new entry
func (r *MealPlanRepository) Insert(ctx context.Context, e *mealplan.Entry) error {
	model := MealPlanEntryToModel(e)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}

	e.ID = model.ID
	return nil
}

// BulkInsert creates many entries in batches
func (r *MealPlanRepository) BulkInsert(ctx context.Context, entries []*mealplan.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]*MealPlanEntryModel, len(entries))
	for i, e := range entries {
		models[i] = MealPlanEntryToModel(e)
	}

	result := r.db.WithContext(ctx).CreateInBatches(models, batchSize)
	if result.Error != nil {
		return result.Error
	}

	for i, model := range models {
		entries[i].ID = model.ID
	}
	return nil
}

// Update overwrites an existing entry
func (r *MealPlanRepository) Update(ctx context.Context, e *mealplan.Entry) error {
	model := MealPlanEntryToModel(e)

	result := r.db.WithContext(ctx).Model(model).Select("*").Updates(model)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}

	return nil
}

// Delete deletes an entry by ID
func (r *MealPlanRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&MealPlanEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// BulkDelete deletes the given ids
func (r *MealPlanRepository) BulkDelete(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Delete(&MealPlanEntryModel{}, "id IN ?", ids)
	return result.RowsAffected, result.Error
}

// FindByID finds an entry by ID
func (r *MealPlanRepository) FindByID(ctx context.Context, id uint64) (*mealplan.Entry, error) {
	var model MealPlanEntryModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		return nil, notFoundOr(result.Error)
	}

	return ModelToMealPlanEntry(&model), nil
}

// FindByIDs finds entries by IDs in id order; unknown ids are skipped
func (r *MealPlanRepository) FindByIDs(ctx context.Context, ids []uint64) ([]*mealplan.Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []MealPlanEntryModel

	result := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	return modelsToEntries(models), nil
}

// List returns entries in date and slot order
func (r *MealPlanRepository) List(ctx context.Context, q outbound.MealPlanQuery) ([]*mealplan.Entry, error) {
	var models []MealPlanEntryModel

	query := r.db.WithContext(ctx).Model(&MealPlanEntryModel{})
	if q.From != "" {
		query = query.Where("date >= ?", q.From)
	}
	if q.To != "" {
		query = query.Where("date <= ?", q.To)
	}
	if q.MealType != "" {
		query = query.Where("meal_type = ?", string(q.MealType))
	}
	if q.OnlyOpen {
		query = query.Where("is_cooked = ?", false)
	}

	result := query.
		Order("date").
		Order(mealSlotOrder).
		Order("id").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	return modelsToEntries(models), nil
}

// Clear removes every entry
func (r *MealPlanRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&MealPlanEntryModel{}).Error
}

// mealSlotOrder sorts breakfast, lunch, dinner
const mealSlotOrder = "CASE meal_type WHEN 'Frühstück' THEN 0 WHEN 'Mittagessen' THEN 1 WHEN 'Abendessen' THEN 2 ELSE 3 END"

func modelsToEntries(models []MealPlanEntryModel) []*mealplan.Entry {
	entries := make([]*mealplan.Entry, len(models))
	for i := range models {
		entries[i] = ModelToMealPlanEntry(&models[i])
	}
	return entries
}
