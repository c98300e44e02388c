package kitchen

import (
	"context"
	"strings"
	"time"

	"github.com/alchemorsel/kitchen/internal/domain/mealplan"
	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/quantity"
	"github.com/alchemorsel/kitchen/internal/domain/shared"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
	"github.com/alchemorsel/kitchen/internal/ports/inbound"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/alchemorsel/kitchen/pkg/errors"
	"go.uber.org/zap"
)

const shoppingResource = "Shopping list item"

// ListShoppingList returns items ordered by category and sort order
func (s *Service) ListShoppingList(ctx context.Context, q inbound.ShoppingQuery) ([]*shopping.Item, error) {
	items, err := s.store.ShoppingList().List(ctx, q)
	if err != nil {
		return nil, errors.NewDatabaseError("list shopping list", err)
	}
	return items, nil
}

// QuickAddShoppingItem parses a line such as "500g Mehl" and merge-adds it
func (s *Service) QuickAddShoppingItem(ctx context.Context, text string) (*shopping.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid(shopping.ErrNameRequired)
	}
	candidate := shopping.FromParsed(quantity.ParseShoppingItem(text))

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	item, added, err := s.mergeShopping(ctx, s.store, candidate)
	if err != nil {
		return nil, err
	}
	if added {
		s.publish(shared.CollectionShoppingList, shared.OpInsert, item.ID)
	} else {
		s.publish(shared.CollectionShoppingList, shared.OpUpdate, item.ID)
	}
	return item, nil
}

// BulkAddFromText merge-adds one parsed item per non-empty line
func (s *Service) BulkAddFromText(ctx context.Context, text string) (result *inbound.BatchResult, err error) {
	defer s.track("bulk_add_from_text", time.Now(), &err)

	var candidates []shopping.Candidate
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		candidates = append(candidates, shopping.FromParsed(quantity.ParseShoppingItem(line)))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.batchAdd(ctx, "bulk_add_from_text", candidates)
}

// UpdateShoppingItem applies a partial update
func (s *Service) UpdateShoppingItem(ctx context.Context, id uint64, patch shopping.Patch) (*shopping.Item, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	item, err := s.store.ShoppingList().FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(shoppingResource, id, err)
	}

	item.Apply(patch)
	item.Name = strings.TrimSpace(item.Name)
	if err := s.validator.Struct(item); err != nil {
		return nil, err
	}

	if err := s.store.ShoppingList().Update(ctx, item); err != nil {
		return nil, lookupError(shoppingResource, id, err)
	}
	s.publish(shared.CollectionShoppingList, shared.OpUpdate, id)
	return item, nil
}

// SetShoppingItemChecked checks or unchecks an item
func (s *Service) SetShoppingItemChecked(ctx context.Context, id uint64, checked bool) (*shopping.Item, error) {
	return s.UpdateShoppingItem(ctx, id, shopping.Patch{IsChecked: &checked})
}

// ReorderShoppingItem places an item between two neighbours by giving it the
// midpoint of their sort orders. A nil neighbour means that end of the list.
func (s *Service) ReorderShoppingItem(ctx context.Context, id uint64, beforeID, afterID *uint64) (*shopping.Item, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	item, err := s.store.ShoppingList().FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(shoppingResource, id, err)
	}

	before, err := s.neighbourOrder(ctx, beforeID)
	if err != nil {
		return nil, err
	}
	after, err := s.neighbourOrder(ctx, afterID)
	if err != nil {
		return nil, err
	}

	item.SortOrder = shopping.Between(before, after)
	if err := s.store.ShoppingList().Update(ctx, item); err != nil {
		return nil, lookupError(shoppingResource, id, err)
	}
	s.publish(shared.CollectionShoppingList, shared.OpUpdate, id)
	return item, nil
}

// DeleteShoppingItem deletes by id and reports whether the item existed
func (s *Service) DeleteShoppingItem(ctx context.Context, id uint64) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	deleted, err := s.store.ShoppingList().Delete(ctx, id)
	if err != nil {
		return false, errors.NewDatabaseError("delete shopping list item", err)
	}
	if deleted {
		s.publish(shared.CollectionShoppingList, shared.OpDelete, id)
	}
	return deleted, nil
}

// BulkDeleteShoppingItems deletes the given ids and returns how many existed
func (s *Service) BulkDeleteShoppingItems(ctx context.Context, ids []uint64) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, err := s.store.ShoppingList().BulkDelete(ctx, ids)
	if err != nil {
		return 0, errors.NewDatabaseError("bulk delete shopping list items", err)
	}
	if n > 0 {
		s.publish(shared.CollectionShoppingList, shared.OpDelete, ids...)
	}
	return n, nil
}

// ClearShoppingList deletes the checked items, or all items
func (s *Service) ClearShoppingList(ctx context.Context, onlyChecked bool) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	repo := s.store.ShoppingList()
	if onlyChecked {
		n, err := repo.DeleteChecked(ctx)
		if err != nil {
			return 0, errors.NewDatabaseError("delete checked items", err)
		}
		if n > 0 {
			s.publish(shared.CollectionShoppingList, shared.OpDelete)
		}
		return n, nil
	}

	items, err := repo.List(ctx, outbound.ShoppingQuery{})
	if err != nil {
		return 0, errors.NewDatabaseError("list shopping list", err)
	}
	if err := repo.Clear(ctx); err != nil {
		return 0, errors.NewDatabaseError("clear shopping list", err)
	}
	s.publish(shared.CollectionShoppingList, shared.OpReset)
	return int64(len(items)), nil
}

// ShoppingCategories returns the built-in categories followed by any custom ones in use
func (s *Service) ShoppingCategories(ctx context.Context) ([]string, error) {
	used, err := s.store.ShoppingList().Categories(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list categories", err)
	}

	categories := quantity.Categories()
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c] = true
	}
	for _, c := range used {
		if c != "" && !known[c] {
			known[c] = true
			categories = append(categories, c)
		}
	}
	return categories, nil
}

// AddMissingIngredientsToShoppingList merge-adds the ingredients the pantry lacks for
// a recipe and returns how many rows were new. An unknown recipe adds nothing.
func (s *Service) AddMissingIngredientsToShoppingList(ctx context.Context, recipeID uint64) (added int, err error) {
	defer s.track("add_missing_ingredients", time.Now(), &err)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	r, err := s.store.Recipes().FindByID(ctx, recipeID)
	if isNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.NewDatabaseError("find recipe", err)
	}

	stock, err := s.stock(ctx, s.store)
	if err != nil {
		return 0, err
	}

	var candidates []shopping.Candidate
	for _, ing := range pantry.MissingIngredients(r, stock) {
		candidates = append(candidates, candidateFor(ing.Name, ing.Quantity, ing.Unit, 1, r.ID))
	}

	batch, err := s.batchAdd(ctx, "add_missing_ingredients", candidates)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Missing ingredients added to shopping list",
		zap.Uint64("recipe_id", recipeID),
		zap.Int("added", batch.Added),
		zap.Int("existing", batch.Updated),
	)
	return batch.Added, nil
}

// AddMissingIngredientsForMeals does the same for several planned meals. An ingredient
// needed by more than one meal is requested once, in the combined quantity.
func (s *Service) AddMissingIngredientsForMeals(ctx context.Context, entryIDs []uint64) (result *inbound.MealsResult, err error) {
	defer s.track("add_missing_ingredients_for_meals", time.Now(), &err)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	result = &inbound.MealsResult{}
	if len(entryIDs) == 0 {
		return result, nil
	}

	entries, err := s.store.MealPlan().FindByIDs(ctx, entryIDs)
	if err != nil {
		return nil, errors.NewDatabaseError("find meal plan entries", err)
	}
	candidates, err := s.missingForEntries(ctx, s.store, entries)
	if err != nil {
		return nil, err
	}

	batch, err := s.batchAdd(ctx, "add_missing_ingredients_for_meals", candidates)
	if err != nil {
		return nil, err
	}
	result.Added = batch.Added
	result.Existing = batch.Updated

	s.logger.Info("Missing ingredients for meals added to shopping list",
		zap.Int("meals", len(entries)),
		zap.Int("added", result.Added),
		zap.Int("existing", result.Existing),
	)
	return result, nil
}

// MoveCheckedToPantry merge-adds every checked item into the pantry and removes it from
// the list. One item failing does not stop the others.
func (s *Service) MoveCheckedToPantry(ctx context.Context) (moved int, err error) {
	defer s.track("move_checked_to_pantry", time.Now(), &err)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	checked := true
	items, err := s.store.ShoppingList().List(ctx, outbound.ShoppingQuery{Checked: &checked})
	if err != nil {
		return 0, errors.NewDatabaseError("list checked items", err)
	}

	var pantryInserted, pantryUpdated, removed []uint64
	for _, item := range items {
		candidate := pantry.Item{
			Name:      strings.TrimSpace(item.Name),
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			CreatedAt: s.now().UnixMilli(),
		}
		if item.Category != "" {
			category := item.Category
			candidate.Category = &category
		}

		// merge and removal commit together, so a failed item stays checked and
		// a later call does not add its quantity twice
		var res *inbound.AddResult
		err := s.store.Transaction(ctx, func(tx outbound.Store) error {
			var err error
			if res, err = s.mergePantry(ctx, tx, candidate); err != nil {
				return err
			}
			_, err = tx.ShoppingList().Delete(ctx, item.ID)
			return err
		})
		if err != nil {
			s.logger.Warn("Failed to move item to pantry",
				zap.Uint64("id", item.ID),
				zap.String("name", item.Name),
				zap.Error(err),
			)
			continue
		}

		if res.Status == inbound.StatusAdded {
			pantryInserted = append(pantryInserted, res.Item.ID)
		} else {
			pantryUpdated = append(pantryUpdated, res.Item.ID)
		}
		removed = append(removed, item.ID)
		moved++
	}

	if len(pantryInserted) > 0 {
		s.publish(shared.CollectionPantry, shared.OpInsert, pantryInserted...)
	}
	if len(pantryUpdated) > 0 {
		s.publish(shared.CollectionPantry, shared.OpUpdate, pantryUpdated...)
	}
	if len(removed) > 0 {
		s.publish(shared.CollectionShoppingList, shared.OpDelete, removed...)
	}

	s.metrics.AddItems("move_checked_to_pantry", moved)
	s.logger.Info("Checked items moved to pantry",
		zap.Int("moved", moved),
		zap.Int("checked", len(items)),
	)
	return moved, nil
}

// RenameShoppingListCategory retags every item of oldName in one statement
func (s *Service) RenameShoppingListCategory(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return errors.NewValidationError("category name is required")
	}
	if oldName == newName {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, err := s.store.ShoppingList().RenameCategory(ctx, oldName, newName)
	if err != nil {
		return errors.NewDatabaseError("rename category", err)
	}
	if n > 0 {
		s.publish(shared.CollectionShoppingList, shared.OpUpdate)
	}
	s.logger.Info("Shopping list category renamed",
		zap.String("from", oldName),
		zap.String("to", newName),
		zap.Int64("items", n),
	)
	return nil
}

// BatchAddShoppingListItems merge-adds a batch, counting new and grown rows
func (s *Service) BatchAddShoppingListItems(ctx context.Context, items []shopping.Candidate) (result *inbound.BatchResult, err error) {
	defer s.track("batch_add_shopping_list_items", time.Now(), &err)

	for i := range items {
		items[i].Name = strings.TrimSpace(items[i].Name)
		if err := s.validator.Struct(items[i]); err != nil {
			return nil, err
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.batchAdd(ctx, "batch_add_shopping_list_items", items)
}

// GenerateListFromMealPlan adds what the open recipe meals in [from, to] still need
func (s *Service) GenerateListFromMealPlan(ctx context.Context, from, to string) (result *inbound.BatchResult, err error) {
	defer s.track("generate_list_from_meal_plan", time.Now(), &err)

	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(mealplan.DateLayout, d); err != nil {
			return nil, invalid(mealplan.ErrInvalidDate)
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	entries, err := s.store.MealPlan().List(ctx, outbound.MealPlanQuery{From: from, To: to, OnlyOpen: true})
	if err != nil {
		return nil, errors.NewDatabaseError("list meal plan", err)
	}
	candidates, err := s.missingForEntries(ctx, s.store, entries)
	if err != nil {
		return nil, err
	}
	return s.batchAdd(ctx, "generate_list_from_meal_plan", candidates)
}

// batchAdd merge-adds candidates in one transaction. Duplicate names in the input are
// combined first. The caller holds writeMu.
func (s *Service) batchAdd(ctx context.Context, operation string, candidates []shopping.Candidate) (*inbound.BatchResult, error) {
	result := &inbound.BatchResult{}
	merged := shopping.Merge(candidates)
	if len(merged) == 0 {
		return result, nil
	}

	var newItems []*shopping.Item
	var updatedIDs []uint64

	err := s.store.Transaction(ctx, func(tx outbound.Store) error {
		repo := tx.ShoppingList()

		next := 0.0
		if highest, ok, err := repo.MaxSortOrder(ctx); err != nil {
			return err
		} else if ok {
			next = highest + 1
		}

		for _, c := range merged {
			existing, err := repo.FindByName(ctx, c.Name)
			if err == nil {
				existing.Quantity += c.Quantity
				if err := repo.Update(ctx, existing); err != nil {
					return err
				}
				updatedIDs = append(updatedIDs, existing.ID)
				continue
			}
			if !isNotFound(err) {
				return err
			}

			item := shopping.NewItem(c, next)
			next++
			newItems = append(newItems, &item)
		}

		return repo.BulkInsert(ctx, newItems)
	})
	if err != nil {
		return nil, errors.NewDatabaseError("add shopping list items", err)
	}

	result.Added = len(newItems)
	result.Updated = len(updatedIDs)

	insertedIDs := make([]uint64, len(newItems))
	for i, item := range newItems {
		insertedIDs[i] = item.ID
	}
	s.publishShopping(insertedIDs, updatedIDs)

	s.metrics.AddItems(operation, result.Added+result.Updated)
	s.logger.Info("Shopping list batch added",
		zap.String("operation", operation),
		zap.Int("added", result.Added),
		zap.Int("updated", result.Updated),
	)
	return result, nil
}

// mergeShopping merge-adds one candidate. It reports whether a new row was inserted.
func (s *Service) mergeShopping(ctx context.Context, store outbound.Store, c shopping.Candidate) (*shopping.Item, bool, error) {
	repo := store.ShoppingList()

	existing, err := repo.FindByName(ctx, c.Name)
	switch {
	case err == nil:
		existing.Quantity += c.Quantity
		if err := repo.Update(ctx, existing); err != nil {
			return nil, false, errors.NewDatabaseError("update shopping list item", err)
		}
		return existing, false, nil

	case isNotFound(err):
		next := 0.0
		highest, ok, err := repo.MaxSortOrder(ctx)
		if err != nil {
			return nil, false, errors.NewDatabaseError("read sort order", err)
		}
		if ok {
			next = highest + 1
		}
		item := shopping.NewItem(c, next)
		if err := repo.Insert(ctx, &item); err != nil {
			return nil, false, errors.NewDatabaseError("create shopping list item", err)
		}
		return &item, true, nil

	default:
		return nil, false, errors.NewDatabaseError("find shopping list item", err)
	}
}

// missingForEntries collects what the pantry lacks for the recipes of entries, scaled
// to each entry's servings and combined by name. Note entries and dangling recipes
// contribute nothing.
func (s *Service) missingForEntries(ctx context.Context, store outbound.Store, entries []*mealplan.Entry) ([]shopping.Candidate, error) {
	recipes, err := s.recipesFor(ctx, store, entries)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, nil
	}

	stock, err := s.stock(ctx, store)
	if err != nil {
		return nil, err
	}

	var candidates []shopping.Candidate
	for _, e := range entries {
		if !e.HasRecipe() {
			continue
		}
		r, ok := recipes[*e.RecipeID]
		if !ok {
			continue
		}
		factor := s.servingsFactor(e, r)
		for _, ing := range pantry.MissingIngredients(r, stock) {
			candidates = append(candidates, candidateFor(ing.Name, ing.Quantity, ing.Unit, factor, r.ID))
		}
	}
	return shopping.Merge(candidates), nil
}

func (s *Service) neighbourOrder(ctx context.Context, id *uint64) (*float64, error) {
	if id == nil {
		return nil, nil
	}
	item, err := s.store.ShoppingList().FindByID(ctx, *id)
	if err != nil {
		return nil, lookupError(shoppingResource, *id, err)
	}
	return &item.SortOrder, nil
}

func (s *Service) publishShopping(insertedIDs, updatedIDs []uint64) {
	if len(insertedIDs) > 0 {
		s.publish(shared.CollectionShoppingList, shared.OpInsert, insertedIDs...)
	}
	if len(updatedIDs) > 0 {
		s.publish(shared.CollectionShoppingList, shared.OpUpdate, updatedIDs...)
	}
}

// candidateFor turns a recipe ingredient into a shopping candidate. Amounts that are
// not numbers ("etwas") become a single piece.
func candidateFor(name, amount, unit string, factor float64, recipeID uint64) shopping.Candidate {
	qty, ok := quantity.Amount(amount)
	if ok {
		qty *= factor
	} else {
		qty = 1
	}
	id := recipeID
	return shopping.Candidate{
		Name:     strings.TrimSpace(name),
		Quantity: qty,
		Unit:     unit,
		RecipeID: &id,
	}
}
