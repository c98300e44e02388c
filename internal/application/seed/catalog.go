// Package seed fills a fresh store with a starter pantry and the bundled recipe
// catalog, and adds newly bundled recipes on later starts.
package seed

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/quantity"
	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/pkg/validation"
)

//go:embed catalog/recipes.json
var catalogFiles embed.FS

// Catalog decodes the bundled recipes. Every call returns fresh copies.
func Catalog() ([]recipe.Recipe, error) {
	data, err := catalogFiles.ReadFile("catalog/recipes.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe catalog: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var recipes []recipe.Recipe
	if err := dec.Decode(&recipes); err != nil {
		return nil, fmt.Errorf("failed to decode recipe catalog: %w", err)
	}

	v := validation.New()
	for i := range recipes {
		if err := v.Struct(recipes[i]); err != nil {
			return nil, fmt.Errorf("catalog recipe %q: %w", recipes[i].RecipeTitle, err)
		}
		recipes[i].ID = 0
		recipes[i].IsFavorite = false
		recipes[i].UpdatedAt = nil
	}
	return recipes, nil
}

type starterItem struct {
	name     string
	qty      float64
	unit     string
	expiryIn *int // days from today; nil means no expiry date
	min      *float64
}

func days(n int) *int { return &n }

func amount(v float64) *float64 { return &v }

// The expiry offsets cover every expiry status: expired, expiring, fresh and none.
var starterPantry = []starterItem{
	{name: "Milch", qty: 1, unit: "l", expiryIn: days(2), min: amount(1)},
	{name: "Eier", qty: 6, unit: quantity.DefaultUnit, expiryIn: days(10)},
	{name: "Joghurt", qty: 2, unit: "Becher", expiryIn: days(-1)},
	{name: "Butter", qty: 250, unit: "g", expiryIn: days(21)},
	{name: "Spinat", qty: 100, unit: "g", expiryIn: days(0)},
	{name: "Mehl", qty: 1, unit: "kg"},
	{name: "Spaghetti", qty: 500, unit: "g", min: amount(250)},
	{name: "Reis", qty: 200, unit: "g", min: amount(500)},
	{name: "Olivenöl", qty: 500, unit: "ml"},
	{name: "Knoblauch", qty: 4, unit: "Zehe", expiryIn: days(14)},
	{name: "Zwiebel", qty: 3, unit: quantity.DefaultUnit},
	{name: "Salz", qty: 500, unit: "g"},
}

// StarterPantry returns the starter items with expiry dates relative to today
func StarterPantry(today time.Time) []pantry.Item {
	created := today.UnixMilli()
	items := make([]pantry.Item, len(starterPantry))
	for i, s := range starterPantry {
		category := quantity.CategoryFor(s.name)
		items[i] = pantry.Item{
			Name:        s.name,
			Quantity:    s.qty,
			Unit:        s.unit,
			Category:    &category,
			CreatedAt:   created,
			MinQuantity: s.min,
		}
		if s.expiryIn != nil {
			d := today.AddDate(0, 0, *s.expiryIn).Format(pantry.DateLayout)
			items[i].ExpiryDate = &d
		}
	}
	return items
}
