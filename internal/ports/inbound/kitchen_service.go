// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/alchemorsel/kitchen/internal/domain/mealplan"
	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/domain/settings"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
)

// KitchenService defines the use cases of the local data layer
// This is the primary port that HTTP handlers and other driving adapters will use
type KitchenService interface {
	PantryUseCases
	RecipeUseCases
	MealPlanUseCases
	ShoppingUseCases
	GenerationUseCases

	GetSettings(ctx context.Context) (settings.AppSettings, error)
	SaveSettings(ctx context.Context, s settings.AppSettings) error
}

// PantryUseCases covers pantry CRUD and the pantry composite operations
type PantryUseCases interface {
	ListPantry(ctx context.Context, q PantryQuery) ([]PantryItemView, error)
	GetPantryItem(ctx context.Context, id uint64) (*pantry.Item, error)
	CreatePantryItem(ctx context.Context, item pantry.Item) (*pantry.Item, error)
	BulkCreatePantryItems(ctx context.Context, items []pantry.Item) ([]*pantry.Item, error)
	UpdatePantryItem(ctx context.Context, id uint64, patch pantry.Patch) (*pantry.Item, error)
	// AdjustPantryQuantity deletes the item when the result is ≤ 0; the returned item is nil then
	AdjustPantryQuantity(ctx context.Context, id uint64, delta float64) (*pantry.Item, error)
	DeletePantryItem(ctx context.Context, id uint64) (bool, error)
	BulkDeletePantryItems(ctx context.Context, ids []uint64) (int64, error)

	AddOrUpdatePantryItem(ctx context.Context, candidate pantry.Item) (*AddResult, error)
	RemoveItemFromPantry(ctx context.Context, name string) (bool, error)
	AddLowStockToShoppingList(ctx context.Context) (*BatchResult, error)
}

// RecipeUseCases covers the recipe book and pantry availability
type RecipeUseCases interface {
	ListRecipes(ctx context.Context, q RecipeQuery) ([]*recipe.Recipe, error)
	GetRecipe(ctx context.Context, id uint64) (*recipe.Recipe, error)
	SaveRecipe(ctx context.Context, r recipe.Recipe) (*recipe.Recipe, error)
	UpdateRecipe(ctx context.Context, id uint64, patch RecipePatch) (*recipe.Recipe, error)
	ToggleFavorite(ctx context.Context, id uint64) (*recipe.Recipe, error)
	DeleteRecipe(ctx context.Context, id uint64) (bool, error)
	BulkDeleteRecipes(ctx context.Context, ids []uint64) (int64, error)
	ScaleRecipe(ctx context.Context, id uint64, servings int) (*recipe.Recipe, error)

	RecipePantryStatus(ctx context.Context, id uint64) (*pantry.MatchResult, error)
	RecipesWithPantryStatus(ctx context.Context, q RecipeQuery) ([]RecipeWithStatus, error)
}

// MealPlanUseCases covers the meal plan and the cook transition
type MealPlanUseCases interface {
	ListMealPlan(ctx context.Context, q MealPlanQuery) ([]MealPlanView, error)
	AddMealPlanEntry(ctx context.Context, e mealplan.Entry) (*mealplan.Entry, error)
	ReplanMealPlanEntry(ctx context.Context, id uint64, date string, mealType mealplan.MealType) (*mealplan.Entry, error)
	UpdateMealPlanEntry(ctx context.Context, id uint64, patch mealplan.Patch) (*mealplan.Entry, error)
	DeleteMealPlanEntry(ctx context.Context, id uint64) (bool, error)
	BulkDeleteMealPlanEntries(ctx context.Context, ids []uint64) (int64, error)

	MarkMealAsCooked(ctx context.Context, entryID uint64) (*CookResult, error)
}

// ShoppingUseCases covers the shopping list and its merge-add operations
type ShoppingUseCases interface {
	ListShoppingList(ctx context.Context, q ShoppingQuery) ([]*shopping.Item, error)
	QuickAddShoppingItem(ctx context.Context, text string) (*shopping.Item, error)
	BulkAddFromText(ctx context.Context, text string) (*BatchResult, error)
	UpdateShoppingItem(ctx context.Context, id uint64, patch shopping.Patch) (*shopping.Item, error)
	SetShoppingItemChecked(ctx context.Context, id uint64, checked bool) (*shopping.Item, error)
	ReorderShoppingItem(ctx context.Context, id uint64, beforeID, afterID *uint64) (*shopping.Item, error)
	DeleteShoppingItem(ctx context.Context, id uint64) (bool, error)
	BulkDeleteShoppingItems(ctx context.Context, ids []uint64) (int64, error)
	ClearShoppingList(ctx context.Context, onlyChecked bool) (int64, error)
	ShoppingCategories(ctx context.Context) ([]string, error)

	AddMissingIngredientsToShoppingList(ctx context.Context, recipeID uint64) (int, error)
	AddMissingIngredientsForMeals(ctx context.Context, entryIDs []uint64) (*MealsResult, error)
	MoveCheckedToPantry(ctx context.Context) (int, error)
	RenameShoppingListCategory(ctx context.Context, oldName, newName string) error
	BatchAddShoppingListItems(ctx context.Context, items []shopping.Candidate) (*BatchResult, error)
	GenerateListFromMealPlan(ctx context.Context, from, to string) (*BatchResult, error)
}

// GenerationUseCases pass through to the LLM collaborator
type GenerationUseCases interface {
	GenerateRecipeIdeas(ctx context.Context, prompt string) ([]outbound.RecipeIdea, error)
	GenerateRecipe(ctx context.Context, idea outbound.RecipeIdea) (*recipe.Recipe, error)
	GenerateShoppingListWithAI(ctx context.Context, goal string) (*BatchResult, error)
}

// Query objects

type (
	PantryQuery   = outbound.PantryQuery
	RecipeQuery   = outbound.RecipeQuery
	MealPlanQuery = outbound.MealPlanQuery
	ShoppingQuery = outbound.ShoppingQuery
)

// RecipePatch is a partial recipe update; nil fields are left alone
type RecipePatch struct {
	RecipeTitle      *string                   `json:"recipeTitle,omitempty" validate:"omitempty,min=1"`
	ShortDescription *string                   `json:"shortDescription,omitempty"`
	Servings         *string                   `json:"servings,omitempty"`
	Difficulty       *string                   `json:"difficulty,omitempty"`
	Ingredients      *[]recipe.IngredientGroup `json:"ingredients,omitempty"`
	Instructions     *[]string                 `json:"instructions,omitempty"`
	Tags             *recipe.Tags              `json:"tags,omitempty"`
	IsFavorite       *bool                     `json:"isFavorite,omitempty"`
}

// Response DTOs

// AddStatus tells whether a merge-add created a row or grew an existing one
type AddStatus string

const (
	StatusAdded   AddStatus = "added"
	StatusUpdated AddStatus = "updated"
)

// AddResult is returned by AddOrUpdatePantryItem
type AddResult struct {
	Status AddStatus    `json:"status"`
	Item   *pantry.Item `json:"item"`
}

// CookResult is returned by MarkMealAsCooked
type CookResult struct {
	Success bool        `json:"success"`
	Changes CookChanges `json:"changes"`
}

// CookChanges lists the pantry rows touched by a cook transition
type CookChanges struct {
	Updated []*pantry.Item `json:"updated"`
	Deleted []*pantry.Item `json:"deleted"`
}

// BatchResult counts new rows vs merged rows of a batch merge-add
type BatchResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// MealsResult counts new vs already present shopping rows
type MealsResult struct {
	Added    int `json:"added"`
	Existing int `json:"existing"`
}

// PantryItemView is a pantry row with its derived status
type PantryItemView struct {
	*pantry.Item
	ExpiryStatus pantry.ExpiryStatus `json:"expiryStatus"`
	LowStock     bool                `json:"lowStock"`
}

// RecipeWithStatus pairs a recipe with its pantry availability
type RecipeWithStatus struct {
	Recipe *recipe.Recipe     `json:"recipe"`
	Pantry pantry.MatchResult `json:"pantry"`
}

// MealPlanView is an entry with its recipe resolved; Recipe is nil for notes and dangling ids
type MealPlanView struct {
	Entry  *mealplan.Entry `json:"entry"`
	Recipe *recipe.Recipe  `json:"recipe,omitempty"`
}
