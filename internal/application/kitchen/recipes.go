package kitchen

import (
	"context"
	"strings"

	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/domain/shared"
	"github.com/alchemorsel/kitchen/internal/ports/inbound"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/alchemorsel/kitchen/pkg/errors"
	"go.uber.org/zap"
)

const recipeResource = "Recipe"

// ListRecipes returns the recipes matching q
func (s *Service) ListRecipes(ctx context.Context, q inbound.RecipeQuery) ([]*recipe.Recipe, error) {
	recipes, err := s.store.Recipes().List(ctx, q)
	if err != nil {
		return nil, errors.NewDatabaseError("list recipes", err)
	}
	return recipes, nil
}

// GetRecipe returns one recipe
func (s *Service) GetRecipe(ctx context.Context, id uint64) (*recipe.Recipe, error) {
	r, err := s.store.Recipes().FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(recipeResource, id, err)
	}
	return r, nil
}

// SaveRecipe stores a new recipe, e.g. one returned by GenerateRecipe
func (s *Service) SaveRecipe(ctx context.Context, r recipe.Recipe) (*recipe.Recipe, error) {
	r.ID = 0
	r.RecipeTitle = strings.TrimSpace(r.RecipeTitle)
	if err := s.checkRecipe(&r); err != nil {
		return nil, err
	}
	s.touch(&r)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Recipes().Insert(ctx, &r); err != nil {
		return nil, errors.NewDatabaseError("create recipe", err)
	}
	s.publish(shared.CollectionRecipes, shared.OpInsert, r.ID)

	s.logger.Info("Recipe saved",
		zap.Uint64("id", r.ID),
		zap.String("title", r.RecipeTitle),
	)
	return &r, nil
}

// UpdateRecipe applies a partial update
func (s *Service) UpdateRecipe(ctx context.Context, id uint64, patch inbound.RecipePatch) (*recipe.Recipe, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	r, err := s.store.Recipes().FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(recipeResource, id, err)
	}

	applyRecipePatch(r, patch)
	if err := s.checkRecipe(r); err != nil {
		return nil, err
	}
	s.touch(r)

	if err := s.store.Recipes().Update(ctx, r); err != nil {
		return nil, lookupError(recipeResource, id, err)
	}
	s.publish(shared.CollectionRecipes, shared.OpUpdate, id)
	return r, nil
}

// ToggleFavorite flips the favorite flag
func (s *Service) ToggleFavorite(ctx context.Context, id uint64) (*recipe.Recipe, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	r, err := s.store.Recipes().FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(recipeResource, id, err)
	}

	r.IsFavorite = !r.IsFavorite
	s.touch(r)
	if err := s.store.Recipes().Update(ctx, r); err != nil {
		return nil, lookupError(recipeResource, id, err)
	}
	s.publish(shared.CollectionRecipes, shared.OpUpdate, id)
	return r, nil
}

// DeleteRecipe deletes by id. Meal plan entries pointing at it are left dangling.
func (s *Service) DeleteRecipe(ctx context.Context, id uint64) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	deleted, err := s.store.Recipes().Delete(ctx, id)
	if err != nil {
		return false, errors.NewDatabaseError("delete recipe", err)
	}
	if deleted {
		s.publish(shared.CollectionRecipes, shared.OpDelete, id)
	}
	return deleted, nil
}

// BulkDeleteRecipes deletes the given ids and returns how many existed
func (s *Service) BulkDeleteRecipes(ctx context.Context, ids []uint64) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, err := s.store.Recipes().BulkDelete(ctx, ids)
	if err != nil {
		return 0, errors.NewDatabaseError("bulk delete recipes", err)
	}
	if n > 0 {
		s.publish(shared.CollectionRecipes, shared.OpDelete, ids...)
	}
	return n, nil
}

// ScaleRecipe returns the recipe with quantities scaled to servings. Nothing is stored.
func (s *Service) ScaleRecipe(ctx context.Context, id uint64, servings int) (*recipe.Recipe, error) {
	if servings <= 0 {
		return nil, errors.NewValidationError("servings must be greater than 0")
	}

	r, err := s.store.Recipes().FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(recipeResource, id, err)
	}

	if _, ok := r.BaseServings(); !ok {
		s.logger.Warn("Recipe servings are not a number, not scaling",
			zap.Uint64("id", id),
			zap.String("servings", r.Servings),
		)
	}
	scaled := r.Scaled(servings)
	return &scaled, nil
}

// RecipePantryStatus compares one recipe against the pantry
func (s *Service) RecipePantryStatus(ctx context.Context, id uint64) (*pantry.MatchResult, error) {
	r, err := s.store.Recipes().FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(recipeResource, id, err)
	}

	stock, err := s.stock(ctx, s.store)
	if err != nil {
		return nil, err
	}
	result := pantry.Check(r, stock)
	return &result, nil
}

// RecipesWithPantryStatus lists recipes together with their availability
func (s *Service) RecipesWithPantryStatus(ctx context.Context, q inbound.RecipeQuery) ([]inbound.RecipeWithStatus, error) {
	recipes, err := s.ListRecipes(ctx, q)
	if err != nil {
		return nil, err
	}

	stock, err := s.stock(ctx, s.store)
	if err != nil {
		return nil, err
	}

	out := make([]inbound.RecipeWithStatus, len(recipes))
	for i, r := range recipes {
		out[i] = inbound.RecipeWithStatus{Recipe: r, Pantry: pantry.Check(r, stock)}
	}
	return out, nil
}

// stock snapshots the pantry for the match engine
func (s *Service) stock(ctx context.Context, store outbound.Store) (pantry.Stock, error) {
	items, err := store.Pantry().List(ctx, outbound.PantryQuery{})
	if err != nil {
		return nil, errors.NewDatabaseError("list pantry", err)
	}
	values := make([]pantry.Item, len(items))
	for i, item := range items {
		values[i] = *item
	}
	return pantry.StockOf(values), nil
}

func (s *Service) checkRecipe(r *recipe.Recipe) error {
	if r.RecipeTitle == "" {
		return invalid(recipe.ErrTitleRequired)
	}
	for _, ing := range r.AllIngredients() {
		if strings.TrimSpace(ing.Name) == "" {
			return invalid(recipe.ErrNoIngredientName)
		}
	}
	return s.validator.Struct(r)
}

func (s *Service) touch(r *recipe.Recipe) {
	now := s.now().UnixMilli()
	r.UpdatedAt = &now
}

func applyRecipePatch(r *recipe.Recipe, p inbound.RecipePatch) {
	if p.RecipeTitle != nil {
		r.RecipeTitle = strings.TrimSpace(*p.RecipeTitle)
	}
	if p.ShortDescription != nil {
		r.ShortDescription = *p.ShortDescription
	}
	if p.Servings != nil {
		r.Servings = *p.Servings
	}
	if p.Difficulty != nil {
		r.Difficulty = *p.Difficulty
	}
	if p.Ingredients != nil {
		r.Ingredients = *p.Ingredients
	}
	if p.Instructions != nil {
		r.Instructions = *p.Instructions
	}
	if p.Tags != nil {
		r.Tags = *p.Tags
	}
	if p.IsFavorite != nil {
		r.IsFavorite = *p.IsFavorite
	}
}
