package inbound

import (
	"context"
	"io"

	"github.com/alchemorsel/kitchen/internal/domain/mealplan"
	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/domain/settings"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
)

// TransferService exports and imports full snapshots of the store
type TransferService interface {
	Export(ctx context.Context) (*Snapshot, error)
	WriteExport(ctx context.Context, w io.Writer) error
	// Import replaces all four collections; settings, when present, overwrite the settings store
	Import(ctx context.Context, r io.Reader) (*ImportResult, error)
}

// SeedService populates a fresh store and adds newly bundled recipes on later starts
type SeedService interface {
	Sync(ctx context.Context) (*SyncResult, error)
}

// Snapshot is the persisted export format
type Snapshot struct {
	Pantry       []*pantry.Item        `json:"pantry" validate:"dive"`
	Recipes      []*recipe.Recipe      `json:"recipes" validate:"dive"`
	MealPlan     []*mealplan.Entry     `json:"mealPlan" validate:"dive"`
	ShoppingList []*shopping.Item      `json:"shoppingList" validate:"dive"`
	Settings     *settings.AppSettings `json:"settings,omitempty"`
}

// ImportResult counts the imported rows per collection
type ImportResult struct {
	Pantry       int  `json:"pantry"`
	Recipes      int  `json:"recipes"`
	MealPlan     int  `json:"mealPlan"`
	ShoppingList int  `json:"shoppingList"`
	Settings     bool `json:"settings"`
}

// SyncResult reports what a seed run inserted
type SyncResult struct {
	FirstRun     bool     `json:"firstRun"`
	PantrySeeded int      `json:"pantrySeeded"`
	RecipesAdded int      `json:"recipesAdded"`
	AddedTitles  []string `json:"addedTitles"`
}
