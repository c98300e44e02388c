// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"time"

	"github.com/alchemorsel/kitchen/internal/domain/mealplan"
	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/quantity"
	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
	"github.com/brianvoe/gofakeit/v6"
)

var pantryNames = []string{
	"Mehl", "Zucker", "Milch", "Eier", "Butter", "Reis", "Nudeln", "Tomaten",
	"Zwiebeln", "Knoblauch", "Olivenöl", "Paprika", "Karotten", "Kartoffeln", "Hähnchenbrust",
}

var units = []string{"g", "kg", "ml", "l", "Stk.", "EL", "TL"}

// Factory creates domain test data from a seeded faker
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory creates a factory with a fixed seed so failures are reproducible
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// PantryItem returns an unsaved pantry item with a unique-ish name
func (f *Factory) PantryItem() pantry.Item {
	name := fmt.Sprintf("%s %s", f.faker.RandomString(pantryNames), f.faker.LetterN(4))
	return pantry.Item{
		Name:     name,
		Quantity: float64(f.faker.Number(1, 20)),
		Unit:     f.faker.RandomString(units),
	}
}

// PantryItems returns n pantry items
func (f *Factory) PantryItems(n int) []pantry.Item {
	items := make([]pantry.Item, n)
	for i := range items {
		items[i] = f.PantryItem()
	}
	return items
}

// ShoppingItem returns an unsaved shopping list item
func (f *Factory) ShoppingItem(sortOrder float64) shopping.Item {
	name := fmt.Sprintf("%s %s", f.faker.RandomString(pantryNames), f.faker.LetterN(4))
	return shopping.Item{
		Name:      name,
		Quantity:  float64(f.faker.Number(1, 5)),
		Unit:      f.faker.RandomString(units),
		Category:  quantity.CategoryFor(name),
		SortOrder: sortOrder,
	}
}

// MealPlanNote returns a note entry on the given day
func (f *Factory) MealPlanNote(date string) mealplan.Entry {
	note := f.faker.Sentence(3)
	return mealplan.Entry{
		Date:     date,
		MealType: mealplan.MealTypes()[f.faker.Number(0, 2)],
		Note:     &note,
	}
}

// Recipe returns a builder seeded with fake content
func (f *Factory) Recipe() *RecipeBuilder {
	return &RecipeBuilder{r: recipe.Recipe{
		RecipeTitle:      f.faker.Sentence(3),
		ShortDescription: f.faker.Sentence(10),
		PrepTime:         fmt.Sprintf("%d Min.", f.faker.Number(5, 30)),
		CookTime:         fmt.Sprintf("%d Min.", f.faker.Number(10, 60)),
		Servings:         "4 Personen",
		Difficulty:       f.faker.RandomString([]string{"Einfach", "Mittel", "Anspruchsvoll"}),
		Instructions:     []string{f.faker.Sentence(8), f.faker.Sentence(8)},
		Tags:             recipe.Tags{Course: []string{"Hauptgericht"}},
	}}
}

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	r recipe.Recipe
}

// NewRecipeBuilder creates a new recipe builder with default values
func NewRecipeBuilder() *RecipeBuilder {
	return NewFactory(time.Now().UnixNano()).Recipe()
}

// WithTitle sets the recipe title
func (rb *RecipeBuilder) WithTitle(title string) *RecipeBuilder {
	rb.r.RecipeTitle = title
	return rb
}

// WithServings sets the free-text servings
func (rb *RecipeBuilder) WithServings(servings string) *RecipeBuilder {
	rb.r.Servings = servings
	return rb
}

// WithIngredient appends an ingredient to the first group
func (rb *RecipeBuilder) WithIngredient(qty, unit, name string) *RecipeBuilder {
	if len(rb.r.Ingredients) == 0 {
		rb.r.Ingredients = []recipe.IngredientGroup{{}}
	}
	g := &rb.r.Ingredients[0]
	g.Items = append(g.Items, recipe.Ingredient{Quantity: qty, Unit: unit, Name: name})
	return rb
}

// WithSection appends a titled ingredient group
func (rb *RecipeBuilder) WithSection(title string, items ...recipe.Ingredient) *RecipeBuilder {
	rb.r.Ingredients = append(rb.r.Ingredients, recipe.IngredientGroup{SectionTitle: title, Items: items})
	return rb
}

// WithTags sets the recipe tags
func (rb *RecipeBuilder) WithTags(tags recipe.Tags) *RecipeBuilder {
	rb.r.Tags = tags
	return rb
}

// AsFavorite marks the recipe as favorite
func (rb *RecipeBuilder) AsFavorite() *RecipeBuilder {
	rb.r.IsFavorite = true
	return rb
}

// Build returns a copy of the recipe
func (rb *RecipeBuilder) Build() recipe.Recipe {
	out := rb.r
	if out.Ingredients == nil {
		out.Ingredients = []recipe.IngredientGroup{{Items: []recipe.Ingredient{
			{Quantity: "200", Unit: "g", Name: "Nudeln"},
		}}}
	}
	return out
}
