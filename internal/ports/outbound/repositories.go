// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"

	"github.com/alchemorsel/kitchen/internal/domain/mealplan"
	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
)

// ErrNotFound is returned by repositories when no record matches
var ErrNotFound = errors.New("record not found")

// Store groups the four collections of the local data store
type Store interface {
	Pantry() PantryRepository
	Recipes() RecipeRepository
	MealPlan() MealPlanRepository
	ShoppingList() ShoppingListRepository

	// Transaction runs fn against repositories bound to a single transaction
	Transaction(ctx context.Context, fn func(tx Store) error) error

	// SchemaVersion reports the version recorded by the last migration
	SchemaVersion(ctx context.Context) (int, error)

	// Meta reads a store-level marker; ok is false when the key was never written
	Meta(ctx context.Context, key string) (value string, ok bool, err error)
	SetMeta(ctx context.Context, key, value string) error
}

// PantryRepository defines the interface for pantry persistence
type PantryRepository interface {
	// Basic CRUD operations
	Insert(ctx context.Context, item *pantry.Item) error
	Update(ctx context.Context, item *pantry.Item) error
	Delete(ctx context.Context, id uint64) (bool, error)
	FindByID(ctx context.Context, id uint64) (*pantry.Item, error)

	// FindByName matches case-insensitively; ErrNotFound when absent
	FindByName(ctx context.Context, name string) (*pantry.Item, error)
	List(ctx context.Context, q PantryQuery) ([]*pantry.Item, error)

	// Batch operations
	BulkInsert(ctx context.Context, items []*pantry.Item) error
	BulkDelete(ctx context.Context, ids []uint64) (int64, error)
	Clear(ctx context.Context) error
}

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	// Basic CRUD operations
	Insert(ctx context.Context, r *recipe.Recipe) error
	Update(ctx context.Context, r *recipe.Recipe) error
	Delete(ctx context.Context, id uint64) (bool, error)
	FindByID(ctx context.Context, id uint64) (*recipe.Recipe, error)

	// Query operations
	FindByIDs(ctx context.Context, ids []uint64) ([]*recipe.Recipe, error)
	List(ctx context.Context, q RecipeQuery) ([]*recipe.Recipe, error)
	Titles(ctx context.Context) ([]string, error)

	// Batch operations
	BulkInsert(ctx context.Context, recipes []*recipe.Recipe) error
	BulkDelete(ctx context.Context, ids []uint64) (int64, error)
	Clear(ctx context.Context) error
}

// MealPlanRepository defines the interface for meal plan persistence
type MealPlanRepository interface {
	Insert(ctx context.Context, e *mealplan.Entry) error
	Update(ctx context.Context, e *mealplan.Entry) error
	Delete(ctx context.Context, id uint64) (bool, error)
	FindByID(ctx context.Context, id uint64) (*mealplan.Entry, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]*mealplan.Entry, error)
	List(ctx context.Context, q MealPlanQuery) ([]*mealplan.Entry, error)

	BulkInsert(ctx context.Context, entries []*mealplan.Entry) error
	BulkDelete(ctx context.Context, ids []uint64) (int64, error)
	Clear(ctx context.Context) error
}

// ShoppingListRepository defines the interface for shopping list persistence
type ShoppingListRepository interface {
	// Basic CRUD operations
	Insert(ctx context.Context, item *shopping.Item) error
	Update(ctx context.Context, item *shopping.Item) error
	Delete(ctx context.Context, id uint64) (bool, error)
	FindByID(ctx context.Context, id uint64) (*shopping.Item, error)

	// FindByName matches case-insensitively; ErrNotFound when absent
	FindByName(ctx context.Context, name string) (*shopping.Item, error)
	List(ctx context.Context, q ShoppingQuery) ([]*shopping.Item, error)
	MaxSortOrder(ctx context.Context) (float64, bool, error)
	Categories(ctx context.Context) ([]string, error)

	// RenameCategory retags every item of oldName in one statement
	RenameCategory(ctx context.Context, oldName, newName string) (int64, error)

	// Batch operations
	BulkInsert(ctx context.Context, items []*shopping.Item) error
	BulkDelete(ctx context.Context, ids []uint64) (int64, error)
	DeleteChecked(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
}

// PantryQuery filters and orders pantry listings
type PantryQuery struct {
	Category       string
	Search         string
	ExpiringBefore string
	OrderBy        string // name, expiryDate, createdAt, category
}

// RecipeQuery filters and orders recipe listings
type RecipeQuery struct {
	Search        string
	FavoritesOnly bool
	TagGroup      recipe.TagGroup
	Tag           string
	OrderBy       string // title, updatedAt
}

// MealPlanQuery filters meal plan listings; From and To are inclusive ISO dates
type MealPlanQuery struct {
	From     string
	To       string
	MealType mealplan.MealType
	OnlyOpen bool
}

// ShoppingQuery filters shopping list listings
type ShoppingQuery struct {
	Category string
	Checked  *bool
}
