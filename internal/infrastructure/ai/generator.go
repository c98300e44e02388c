// Package ai provides the recipe generator adapters. Every failure carries one of the
// external error kinds (API_KEY_MISSING, API_ERROR, INVALID_*) as its message prefix.
package ai

import (
	"context"

	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
	"github.com/alchemorsel/kitchen/internal/infrastructure/config"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/alchemorsel/kitchen/pkg/errors"
	"go.uber.org/zap"
)

// NewGenerator picks the adapter for the configured provider. Without an API key
// every call fails with API_KEY_MISSING.
func NewGenerator(cfg config.AIConfig, logger *zap.Logger) outbound.RecipeGenerator {
	if cfg.Provider == "" || cfg.APIKey == "" {
		logger.Info("No AI provider configured, generation is disabled")
		return Unconfigured{}
	}
	logger.Info("AI provider configured",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
	)
	return NewClient(cfg, logger)
}

// Unconfigured is the generator used when no provider is set up
type Unconfigured struct{}

func (Unconfigured) GenerateIdeas(context.Context, outbound.GenerationRequest) ([]outbound.RecipeIdea, error) {
	return nil, errMissingKey()
}

func (Unconfigured) GenerateRecipe(context.Context, outbound.RecipeIdea, outbound.GenerationRequest) (*recipe.Recipe, error) {
	return nil, errMissingKey()
}

func (Unconfigured) GenerateShoppingList(context.Context, outbound.GenerationRequest) ([]shopping.Candidate, error) {
	return nil, errMissingKey()
}

func errMissingKey() error {
	return errors.NewExternalKindError(errors.KindAPIKeyMissing, "no AI provider configured")
}
