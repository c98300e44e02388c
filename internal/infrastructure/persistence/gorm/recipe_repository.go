// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"

	"github.com/alchemorsel/kitchen/internal/domain/quantity"
	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"gorm.io/gorm"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Insert creates a new recipe
func (r *RecipeRepository) Insert(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}

	rec.ID = model.ID
	return nil
}

// BulkInsert creates many recipes in batches
func (r *RecipeRepository) BulkInsert(ctx context.Context, recipes []*recipe.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	models := make([]*RecipeModel, len(recipes))
	for i, rec := range recipes {
		models[i] = RecipeToModel(rec)
	}

	result := r.db.WithContext(ctx).CreateInBatches(models, batchSize)
	if result.Error != nil {
		return result.Error
	}

	for i, model := range models {
		recipes[i].ID = model.ID
	}
	return nil
}

// Update overwrites an existing recipe
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	result := r.db.WithContext(ctx).Model(model).Select("*").Updates(model)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}

	return nil
}

// Delete deletes a recipe by ID. Meal plan entries keep their now dangling recipe id.
func (r *RecipeRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&RecipeModel{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// BulkDelete deletes the given ids
func (r *RecipeRepository) BulkDelete(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Delete(&RecipeModel{}, "id IN ?", ids)
	return result.RowsAffected, result.Error
}

// FindByID finds a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id uint64) (*recipe.Recipe, error) {
	var model RecipeModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		return nil, notFoundOr(result.Error)
	}

	return ModelToRecipe(&model), nil
}

// FindByIDs finds recipes by IDs; unknown ids are skipped
func (r *RecipeRepository) FindByIDs(ctx context.Context, ids []uint64) ([]*recipe.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []RecipeModel

	result := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	return modelsToRecipes(models), nil
}

// List returns the recipes matching q. Tag filtering runs after the query
// since tags live in a JSON column.
func (r *RecipeRepository) List(ctx context.Context, q outbound.RecipeQuery) ([]*recipe.Recipe, error) {
	var models []RecipeModel

	query := r.db.WithContext(ctx).Model(&RecipeModel{})
	if q.Search != "" {
		query = query.Where("title_key LIKE ?", "%"+quantity.NameKey(q.Search)+"%")
	}
	if q.FavoritesOnly {
		query = query.Where("is_favorite = ?", true)
	}

	switch q.OrderBy {
	case "updatedAt":
		query = query.Order("updated_at IS NULL, updated_at DESC, id DESC")
	case "id":
		query = query.Order("id")
	default:
		query = query.Order("title_key, id")
	}

	if result := query.Find(&models); result.Error != nil {
		return nil, result.Error
	}

	recipes := modelsToRecipes(models)
	if q.Tag == "" {
		return recipes, nil
	}

	filtered := recipes[:0]
	for _, rec := range recipes {
		if rec.Tags.HasTag(q.TagGroup, q.Tag) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// Titles returns every stored recipe title
func (r *RecipeRepository) Titles(ctx context.Context) ([]string, error) {
	var titles []string
	result := r.db.WithContext(ctx).Model(&RecipeModel{}).Pluck("recipe_title", &titles)
	return titles, result.Error
}

// Clear removes every recipe
func (r *RecipeRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&RecipeModel{}).Error
}

func modelsToRecipes(models []RecipeModel) []*recipe.Recipe {
	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}
	return recipes
}
