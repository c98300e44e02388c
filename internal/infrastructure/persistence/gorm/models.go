// Package gorm provides GORM model definitions for the local data store
package gorm

import (
	"time"

	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PantryItemModel represents the GORM model for pantry items
type PantryItemModel struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"not null"`
	NameKey     string  `gorm:"column:name_key;not null;index"`
	Quantity    float64 `gorm:"not null"`
	Unit        string
	ExpiryDate  *string `gorm:"index"`
	Category    *string `gorm:"index"`
	CreatedAt   int64   `gorm:"autoCreateTime:false;index"`
	MinQuantity *float64
}

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID               uint64 `gorm:"primaryKey;autoIncrement"`
	RecipeTitle      string `gorm:"not null;index"`
	TitleKey         string `gorm:"column:title_key;not null;index"`
	ShortDescription string
	PrepTime         string
	CookTime         string
	TotalTime        string
	Servings         string
	Difficulty       string

	// Nested recipe content, stored as JSON columns
	Ingredients         datatypes.JSONType[[]recipe.IngredientGroup]
	Instructions        datatypes.JSONType[[]string]
	NutritionPerServing datatypes.JSONType[recipe.NutritionInfo]
	Tags                datatypes.JSONType[recipe.Tags]
	ExpertTips          datatypes.JSONType[[]recipe.ExpertTip]

	IsFavorite bool   `gorm:"not null;index"`
	UpdatedAt  *int64 `gorm:"autoUpdateTime:false"`
}

// MealPlanEntryModel represents the GORM model for meal plan entries
type MealPlanEntryModel struct {
	ID         uint64  `gorm:"primaryKey;autoIncrement"`
	Date       string  `gorm:"not null;index:idx_meal_slot"`
	MealType   string  `gorm:"not null;index:idx_meal_slot"`
	RecipeID   *uint64 `gorm:"index"`
	Note       *string
	Servings   *int
	IsCooked   bool `gorm:"not null;index"`
	CookedDate *string
}

// ShoppingListItemModel represents the GORM model for shopping list items
type ShoppingListItemModel struct {
	ID        uint64  `gorm:"primaryKey;autoIncrement"`
	Name      string  `gorm:"not null"`
	NameKey   string  `gorm:"column:name_key;not null;index"`
	Quantity  float64 `gorm:"not null"`
	Unit      string
	IsChecked bool    `gorm:"not null;index"`
	Category  string  `gorm:"not null;index"`
	SortOrder float64 `gorm:"not null;index"`
	RecipeID  *uint64
}

// StoreMetaModel holds store-level key/value metadata such as the schema version
type StoreMetaModel struct {
	Key   string `gorm:"column:meta_key;primaryKey"`
	Value string `gorm:"not null"`
}

// Table names

func (PantryItemModel) TableName() string { return "pantry_items" }
func (RecipeModel) TableName() string { return "recipes" }
func (MealPlanEntryModel) TableName() string { return "meal_plan_entries" }
func (ShoppingListItemModel) TableName() string { return "shopping_list_items" }
func (StoreMetaModel) TableName() string { return "store_meta" }

// GORM Hooks

// BeforeCreate stamps the creation time unless one was imported
func (p *PantryItemModel) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UnixMilli()
	}
	return nil
}

// AllModels lists every model for migration
func AllModels() []interface{} {
	return []interface{}{
		&PantryItemModel{},
		&RecipeModel{},
		&MealPlanEntryModel{},
		&ShoppingListItemModel{},
		&StoreMetaModel{},
	}
}
