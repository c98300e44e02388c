// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"

	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/domain/settings"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockRecipeGenerator provides a mock implementation of outbound.RecipeGenerator
type MockRecipeGenerator struct {
	mock.Mock
}

// GenerateIdeas returns the configured ideas
func (m *MockRecipeGenerator) GenerateIdeas(ctx context.Context, req outbound.GenerationRequest) ([]outbound.RecipeIdea, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]outbound.RecipeIdea), args.Error(1)
}

// GenerateRecipe returns the configured recipe
func (m *MockRecipeGenerator) GenerateRecipe(ctx context.Context, idea outbound.RecipeIdea, req outbound.GenerationRequest) (*recipe.Recipe, error) {
	args := m.Called(ctx, idea, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipe.Recipe), args.Error(1)
}

// GenerateShoppingList returns the configured candidates
func (m *MockRecipeGenerator) GenerateShoppingList(ctx context.Context, req outbound.GenerationRequest) ([]shopping.Candidate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shopping.Candidate), args.Error(1)
}

// MemorySettingsStore keeps settings in memory
type MemorySettingsStore struct {
	mu    sync.Mutex
	saved *settings.AppSettings
	Saves int
}

// NewMemorySettingsStore creates an empty store that loads defaults
func NewMemorySettingsStore() *MemorySettingsStore {
	return &MemorySettingsStore{}
}

// Load returns the saved settings or the defaults
func (m *MemorySettingsStore) Load() (settings.AppSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return settings.Defaults(), nil
	}
	return *m.saved, nil
}

// Save replaces the stored settings
func (m *MemorySettingsStore) Save(s settings.AppSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = &s
	m.Saves++
	return nil
}
