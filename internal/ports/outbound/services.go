package outbound

import (
	"context"
	"time"

	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/domain/settings"
	"github.com/alchemorsel/kitchen/internal/domain/shared"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
)

// ChangeFeed publishes collection changes to live readers
type ChangeFeed interface {
	Publish(change shared.Change)
	// Subscribe returns a channel of changes to the given collections (all when none given)
	// and a function that ends the subscription
	Subscribe(collections ...shared.Collection) (<-chan shared.Change, func())
}

// SettingsStore persists the settings blob
type SettingsStore interface {
	// Load merges the stored blob over the defaults, key by key
	Load() (settings.AppSettings, error)
	Save(s settings.AppSettings) error
}

// RecipeGenerator is the LLM collaborator. Errors carry one of the external kinds
// (API_KEY_MISSING, API_ERROR, INVALID_*)
type RecipeGenerator interface {
	GenerateIdeas(ctx context.Context, req GenerationRequest) ([]RecipeIdea, error)
	GenerateRecipe(ctx context.Context, idea RecipeIdea, req GenerationRequest) (*recipe.Recipe, error)
	GenerateShoppingList(ctx context.Context, req GenerationRequest) ([]shopping.Candidate, error)
}

// GenerationRequest is what every generator call sees
type GenerationRequest struct {
	Prompt      string
	Pantry      []*pantry.Item
	Preferences settings.AIPreferences
}

// RecipeIdea is a short suggestion that can be expanded into a full recipe
type RecipeIdea struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// OperationMetrics records composite operation outcomes
type OperationMetrics interface {
	ObserveOperation(name string, started time.Time, err error)
	AddItems(operation string, n int)
}
