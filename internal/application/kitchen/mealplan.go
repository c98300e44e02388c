package kitchen

import (
	"context"
	"strings"
	"time"

	"github.com/alchemorsel/kitchen/internal/domain/mealplan"
	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/quantity"
	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/domain/shared"
	"github.com/alchemorsel/kitchen/internal/ports/inbound"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/alchemorsel/kitchen/pkg/errors"
	"go.uber.org/zap"
)

const mealPlanResource = "Meal plan entry"

// ListMealPlan returns entries with their recipes resolved
func (s *Service) ListMealPlan(ctx context.Context, q inbound.MealPlanQuery) ([]inbound.MealPlanView, error) {
	entries, err := s.store.MealPlan().List(ctx, q)
	if err != nil {
		return nil, errors.NewDatabaseError("list meal plan", err)
	}

	recipes, err := s.recipesFor(ctx, s.store, entries)
	if err != nil {
		return nil, err
	}

	views := make([]inbound.MealPlanView, len(entries))
	for i, e := range entries {
		views[i] = inbound.MealPlanView{Entry: e}
		if e.HasRecipe() {
			views[i].Recipe = recipes[*e.RecipeID]
		}
	}
	return views, nil
}

// AddMealPlanEntry plans a recipe or a note. The recipe is not required to exist.
func (s *Service) AddMealPlanEntry(ctx context.Context, e mealplan.Entry) (*mealplan.Entry, error) {
	e.ID = 0
	e.IsCooked = false
	e.CookedDate = nil
	if e.Note != nil {
		note := strings.TrimSpace(*e.Note)
		e.Note = &note
	}
	if err := s.checkEntry(&e); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.MealPlan().Insert(ctx, &e); err != nil {
		return nil, errors.NewDatabaseError("create meal plan entry", err)
	}
	s.publish(shared.CollectionMealPlan, shared.OpInsert, e.ID)
	return &e, nil
}

// ReplanMealPlanEntry moves an entry to another day or slot
func (s *Service) ReplanMealPlanEntry(ctx context.Context, id uint64, date string, mealType mealplan.MealType) (*mealplan.Entry, error) {
	return s.UpdateMealPlanEntry(ctx, id, mealplan.Patch{Date: &date, MealType: &mealType})
}

// UpdateMealPlanEntry applies a partial update
func (s *Service) UpdateMealPlanEntry(ctx context.Context, id uint64, patch mealplan.Patch) (*mealplan.Entry, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	e, err := s.store.MealPlan().FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(mealPlanResource, id, err)
	}

	e.Apply(patch)
	if err := s.checkEntry(e); err != nil {
		return nil, err
	}

	if err := s.store.MealPlan().Update(ctx, e); err != nil {
		return nil, lookupError(mealPlanResource, id, err)
	}
	s.publish(shared.CollectionMealPlan, shared.OpUpdate, id)
	return e, nil
}

// DeleteMealPlanEntry deletes by id and reports whether the entry existed
func (s *Service) DeleteMealPlanEntry(ctx context.Context, id uint64) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	deleted, err := s.store.MealPlan().Delete(ctx, id)
	if err != nil {
		return false, errors.NewDatabaseError("delete meal plan entry", err)
	}
	if deleted {
		s.publish(shared.CollectionMealPlan, shared.OpDelete, id)
	}
	return deleted, nil
}

// BulkDeleteMealPlanEntries deletes the given ids and returns how many existed
func (s *Service) BulkDeleteMealPlanEntries(ctx context.Context, ids []uint64) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, err := s.store.MealPlan().BulkDelete(ctx, ids)
	if err != nil {
		return 0, errors.NewDatabaseError("bulk delete meal plan entries", err)
	}
	if n > 0 {
		s.publish(shared.CollectionMealPlan, shared.OpDelete, ids...)
	}
	return n, nil
}

// MarkMealAsCooked takes the recipe's ingredients out of the pantry and marks the
// entry cooked. Already cooked entries, note entries and entries whose recipe is
// gone report Success false and change nothing.
//
// The pantry is decremented before the entry is marked, so a reader in between
// sees stock already used by a meal that is not yet cooked, never the reverse.
func (s *Service) MarkMealAsCooked(ctx context.Context, entryID uint64) (result *inbound.CookResult, err error) {
	defer s.track("mark_meal_cooked", time.Now(), &err)

	result = &inbound.CookResult{
		Changes: inbound.CookChanges{Updated: []*pantry.Item{}, Deleted: []*pantry.Item{}},
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	entry, err := s.store.MealPlan().FindByID(ctx, entryID)
	if isNotFound(err) {
		return result, nil
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find meal plan entry", err)
	}
	if entry.IsCooked || !entry.HasRecipe() {
		return result, nil
	}

	r, err := s.store.Recipes().FindByID(ctx, *entry.RecipeID)
	if isNotFound(err) {
		s.logger.Info("Meal plan entry points at a deleted recipe",
			zap.Uint64("entry_id", entryID),
			zap.Uint64("recipe_id", *entry.RecipeID),
		)
		return result, nil
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find recipe", err)
	}

	factor := s.servingsFactor(entry, r)
	updated := make(map[uint64]*pantry.Item)
	var order []uint64

	for _, ing := range r.AllIngredients() {
		if ing.IsOptional() {
			continue
		}
		amount, ok := quantity.Amount(ing.Quantity)
		if !ok {
			continue
		}

		item, err := s.store.Pantry().FindByName(ctx, ing.Name)
		if isNotFound(err) {
			continue
		}
		if err != nil {
			s.logger.Warn("Failed to look up pantry item", zap.String("name", ing.Name), zap.Error(err))
			continue
		}

		deleted, err := s.decrement(ctx, s.store, item, amount*factor)
		if err != nil {
			s.logger.Warn("Failed to decrement pantry item", zap.String("name", ing.Name), zap.Error(err))
			continue
		}
		if deleted {
			delete(updated, item.ID)
			result.Changes.Deleted = append(result.Changes.Deleted, item)
			continue
		}
		if _, seen := updated[item.ID]; !seen {
			order = append(order, item.ID)
		}
		updated[item.ID] = item
	}

	for _, id := range order {
		if item, ok := updated[id]; ok {
			result.Changes.Updated = append(result.Changes.Updated, item)
		}
	}
	if len(result.Changes.Updated) > 0 {
		s.publish(shared.CollectionPantry, shared.OpUpdate, pantryIDs(result.Changes.Updated)...)
	}
	if len(result.Changes.Deleted) > 0 {
		s.publish(shared.CollectionPantry, shared.OpDelete, pantryIDs(result.Changes.Deleted)...)
	}

	entry.MarkCooked(s.today())
	if err := s.store.MealPlan().Update(ctx, entry); err != nil {
		return nil, errors.NewDatabaseError("mark meal plan entry cooked", err)
	}
	s.publish(shared.CollectionMealPlan, shared.OpUpdate, entryID)

	result.Success = true
	s.metrics.AddItems("mark_meal_cooked", len(result.Changes.Updated)+len(result.Changes.Deleted))
	s.logger.Info("Meal marked as cooked",
		zap.Uint64("entry_id", entryID),
		zap.String("recipe", r.RecipeTitle),
		zap.Int("updated", len(result.Changes.Updated)),
		zap.Int("deleted", len(result.Changes.Deleted)),
	)
	return result, nil
}

// servingsFactor scales a recipe to the servings planned for an entry. A recipe
// whose servings text holds no number is not scaled.
func (s *Service) servingsFactor(e *mealplan.Entry, r *recipe.Recipe) float64 {
	if e.Servings == nil {
		return 1
	}
	base, ok := r.BaseServings()
	if !ok {
		s.logger.Warn("Recipe servings are not a number, using the recipe amounts unscaled",
			zap.Uint64("recipe_id", r.ID),
			zap.String("servings", r.Servings),
		)
		return 1
	}
	if *e.Servings == base {
		return 1
	}
	return float64(*e.Servings) / float64(base)
}

// recipesFor loads the recipes the entries point at, keyed by id. Dangling ids are absent.
func (s *Service) recipesFor(ctx context.Context, store outbound.Store, entries []*mealplan.Entry) (map[uint64]*recipe.Recipe, error) {
	seen := make(map[uint64]bool)
	var ids []uint64
	for _, e := range entries {
		if e.HasRecipe() && !seen[*e.RecipeID] {
			seen[*e.RecipeID] = true
			ids = append(ids, *e.RecipeID)
		}
	}

	byID := make(map[uint64]*recipe.Recipe, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	recipes, err := store.Recipes().FindByIDs(ctx, ids)
	if err != nil {
		return nil, errors.NewDatabaseError("find recipes", err)
	}
	for _, r := range recipes {
		byID[r.ID] = r
	}
	return byID, nil
}

func (s *Service) checkEntry(e *mealplan.Entry) error {
	if err := e.Check(); err != nil {
		return invalid(err)
	}
	return s.validator.Struct(e)
}
