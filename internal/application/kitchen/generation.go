package kitchen

import (
	"context"
	"strings"
	"time"

	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/ports/inbound"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/alchemorsel/kitchen/pkg/errors"
	"go.uber.org/zap"
)

const generatorService = "recipe generator"

// GenerateRecipeIdeas asks the generator for short ideas based on the pantry
func (s *Service) GenerateRecipeIdeas(ctx context.Context, prompt string) (ideas []outbound.RecipeIdea, err error) {
	defer s.track("generate_recipe_ideas", time.Now(), &err)

	req, err := s.generationRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	ideas, err = s.generator.GenerateIdeas(ctx, req)
	if err != nil {
		return nil, s.generatorError("generate ideas", err)
	}
	return ideas, nil
}

// GenerateRecipe expands an idea into a full recipe. It is returned unsaved.
func (s *Service) GenerateRecipe(ctx context.Context, idea outbound.RecipeIdea) (r *recipe.Recipe, err error) {
	defer s.track("generate_recipe", time.Now(), &err)

	if err := s.validator.Struct(idea); err != nil {
		return nil, err
	}

	req, err := s.generationRequest(ctx, idea.Title)
	if err != nil {
		return nil, err
	}

	r, err = s.generator.GenerateRecipe(ctx, idea, req)
	if err != nil {
		return nil, s.generatorError("generate recipe", err)
	}
	return r, nil
}

// GenerateShoppingListWithAI asks the generator for a list toward goal and batch-adds it
func (s *Service) GenerateShoppingListWithAI(ctx context.Context, goal string) (result *inbound.BatchResult, err error) {
	defer s.track("generate_shopping_list", time.Now(), &err)

	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, errors.NewValidationError("goal is required")
	}

	req, err := s.generationRequest(ctx, goal)
	if err != nil {
		return nil, err
	}

	candidates, err := s.generator.GenerateShoppingList(ctx, req)
	if err != nil {
		return nil, s.generatorError("generate shopping list", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.batchAdd(ctx, "generate_shopping_list", candidates)
}

// generationRequest bundles the prompt with a pantry snapshot and the AI preferences
func (s *Service) generationRequest(ctx context.Context, prompt string) (outbound.GenerationRequest, error) {
	items, err := s.store.Pantry().List(ctx, outbound.PantryQuery{})
	if err != nil {
		return outbound.GenerationRequest{}, errors.NewDatabaseError("list pantry", err)
	}
	current, err := s.GetSettings(ctx)
	if err != nil {
		return outbound.GenerationRequest{}, err
	}
	return outbound.GenerationRequest{
		Prompt:      prompt,
		Pantry:      items,
		Preferences: current.AIPreferences,
	}, nil
}

// generatorError wraps a generator failure; its kind stays readable with errors.ExternalKindOf
func (s *Service) generatorError(op string, err error) error {
	kind := errors.ExternalKindOf(err)
	s.logger.Error("Recipe generator failed",
		zap.String("operation", op),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)
	return errors.NewExternalServiceError(generatorService, err)
}
