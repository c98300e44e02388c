// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"github.com/alchemorsel/kitchen/internal/domain/mealplan"
	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/quantity"
	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
	"gorm.io/datatypes"
)

// PantryItemToModel converts a domain pantry item to a GORM model
func PantryItemToModel(i *pantry.Item) *PantryItemModel {
	return &PantryItemModel{
		ID:          i.ID,
		Name:        i.Name,
		NameKey:     quantity.NameKey(i.Name),
		Quantity:    i.Quantity,
		Unit:        i.Unit,
		ExpiryDate:  i.ExpiryDate,
		Category:    i.Category,
		CreatedAt:   i.CreatedAt,
		MinQuantity: i.MinQuantity,
	}
}

// ModelToPantryItem converts a GORM model to a domain pantry item
func ModelToPantryItem(m *PantryItemModel) *pantry.Item {
	return &pantry.Item{
		ID:          m.ID,
		Name:        m.Name,
		Quantity:    m.Quantity,
		Unit:        m.Unit,
		ExpiryDate:  m.ExpiryDate,
		Category:    m.Category,
		CreatedAt:   m.CreatedAt,
		MinQuantity: m.MinQuantity,
	}
}

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:                  r.ID,
		RecipeTitle:         r.RecipeTitle,
		TitleKey:            quantity.NameKey(r.RecipeTitle),
		ShortDescription:    r.ShortDescription,
		PrepTime:            r.PrepTime,
		CookTime:            r.CookTime,
		TotalTime:           r.TotalTime,
		Servings:            r.Servings,
		Difficulty:          r.Difficulty,
		Ingredients:         datatypes.NewJSONType(r.Ingredients),
		Instructions:        datatypes.NewJSONType(r.Instructions),
		NutritionPerServing: datatypes.NewJSONType(r.NutritionPerServing),
		Tags:                datatypes.NewJSONType(r.Tags),
		ExpertTips:          datatypes.NewJSONType(r.ExpertTips),
		IsFavorite:          r.IsFavorite,
		UpdatedAt:           r.UpdatedAt,
	}
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	return &recipe.Recipe{
		ID:                  m.ID,
		RecipeTitle:         m.RecipeTitle,
		ShortDescription:    m.ShortDescription,
		PrepTime:            m.PrepTime,
		CookTime:            m.CookTime,
		TotalTime:           m.TotalTime,
		Servings:            m.Servings,
		Difficulty:          m.Difficulty,
		Ingredients:         m.Ingredients.Data(),
		Instructions:        m.Instructions.Data(),
		NutritionPerServing: m.NutritionPerServing.Data(),
		Tags:                m.Tags.Data(),
		ExpertTips:          m.ExpertTips.Data(),
		IsFavorite:          m.IsFavorite,
		UpdatedAt:           m.UpdatedAt,
	}
}

// MealPlanEntryToModel converts a domain meal plan entry to a GORM model
func MealPlanEntryToModel(e *mealplan.Entry) *MealPlanEntryModel {
	return &MealPlanEntryModel{
		ID:         e.ID,
		Date:       e.Date,
		MealType:   string(e.MealType),
		RecipeID:   e.RecipeID,
		Note:       e.Note,
		Servings:   e.Servings,
		IsCooked:   e.IsCooked,
		CookedDate: e.CookedDate,
	}
}

// ModelToMealPlanEntry converts a GORM model to a domain meal plan entry
func ModelToMealPlanEntry(m *MealPlanEntryModel) *mealplan.Entry {
	return &mealplan.Entry{
		ID:         m.ID,
		Date:       m.Date,
		MealType:   mealplan.MealType(m.MealType),
		RecipeID:   m.RecipeID,
		Note:       m.Note,
		Servings:   m.Servings,
		IsCooked:   m.IsCooked,
		CookedDate: m.CookedDate,
	}
}

// ShoppingItemToModel converts a domain shopping item to a GORM model
func ShoppingItemToModel(i *shopping.Item) *ShoppingListItemModel {
	return &ShoppingListItemModel{
		ID:        i.ID,
		Name:      i.Name,
		NameKey:   quantity.NameKey(i.Name),
		Quantity:  i.Quantity,
		Unit:      i.Unit,
		IsChecked: i.IsChecked,
		Category:  i.Category,
		SortOrder: i.SortOrder,
		RecipeID:  i.RecipeID,
	}
}

// ModelToShoppingItem converts a GORM model to a domain shopping item
func ModelToShoppingItem(m *ShoppingListItemModel) *shopping.Item {
	return &shopping.Item{
		ID:        m.ID,
		Name:      m.Name,
		Quantity:  m.Quantity,
		Unit:      m.Unit,
		IsChecked: m.IsChecked,
		Category:  m.Category,
		SortOrder: m.SortOrder,
		RecipeID:  m.RecipeID,
	}
}
