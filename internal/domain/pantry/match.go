package pantry

import (
	"github.com/alchemorsel/kitchen/internal/domain/quantity"
	"github.com/alchemorsel/kitchen/internal/domain/recipe"
)

// MatchStatus is the tri-state availability of a recipe.
type MatchStatus string

const (
	StatusOK      MatchStatus = "ok"
	StatusPartial MatchStatus = "partial"
	StatusMissing MatchStatus = "missing"
)

// PartialThreshold is the largest missing share that still counts as partial.
const PartialThreshold = 0.3

// MatchResult describes which required ingredients the pantry lacks.
type MatchResult struct {
	Status       MatchStatus `json:"status"`
	MissingNames []string    `json:"missingNames"`
	MissingCount int         `json:"missingCount"`
	TotalCount   int         `json:"totalCount"`
}

// Stock maps NameKey(name) to the quantity on hand.
type Stock map[string]float64

// StockOf indexes pantry items by their natural key, summing duplicates.
func StockOf(items []Item) Stock {
	stock := make(Stock, len(items))
	for _, it := range items {
		stock[quantity.NameKey(it.Name)] += it.Quantity
	}
	return stock
}

// Has reports presence, not sufficiency: any positive quantity counts.
func (s Stock) Has(name string) bool {
	return s[quantity.NameKey(name)] > 0
}

// Check compares a recipe against the pantry. Optional and "nach Geschmack" ingredients
// are left out of both counts. An ingredient is missing when its quantity on hand is ≤ 0.
func Check(r *recipe.Recipe, stock Stock) MatchResult {
	result := MatchResult{Status: StatusOK, MissingNames: []string{}}

	for _, ing := range r.AllIngredients() {
		if ing.IsOptional() {
			continue
		}
		result.TotalCount++
		if !stock.Has(ing.Name) {
			result.MissingCount++
			result.MissingNames = append(result.MissingNames, ing.Name)
		}
	}

	if result.MissingCount == 0 {
		return result
	}
	if float64(result.MissingCount)/float64(result.TotalCount) <= PartialThreshold {
		result.Status = StatusPartial
	} else {
		result.Status = StatusMissing
	}
	return result
}

// MissingIngredients returns the required ingredients the pantry lacks, with their amounts.
func MissingIngredients(r *recipe.Recipe, stock Stock) []recipe.Ingredient {
	var missing []recipe.Ingredient
	for _, ing := range r.AllIngredients() {
		if ing.IsOptional() || stock.Has(ing.Name) {
			continue
		}
		missing = append(missing, ing)
	}
	return missing
}
