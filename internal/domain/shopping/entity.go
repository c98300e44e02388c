// Package shopping holds shopping list items and their drag-reorder arithmetic.
package shopping

import (
	"errors"

	"github.com/alchemorsel/kitchen/internal/domain/quantity"
)

// Item is one shopping list row. Name is the case-insensitive natural key for merge-on-add.
type Item struct {
	ID        uint64  `json:"id,omitempty"`
	Name      string  `json:"name" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"gte=0"`
	Unit      string  `json:"unit"`
	IsChecked bool    `json:"isChecked"`
	Category  string  `json:"category"`
	SortOrder float64 `json:"sortOrder"`
	RecipeID  *uint64 `json:"recipeId,omitempty"`
}

// Patch is a partial update; nil fields are left alone.
type Patch struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Quantity  *float64 `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Unit      *string  `json:"unit,omitempty"`
	IsChecked *bool    `json:"isChecked,omitempty"`
	Category  *string  `json:"category,omitempty"`
	SortOrder *float64 `json:"sortOrder,omitempty"`
}

// Candidate is an item to merge-add, before category and sort order are assigned.
type Candidate struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Unit     string  `json:"unit"`
	RecipeID *uint64 `json:"recipeId,omitempty"`
}

var ErrNameRequired = errors.New("shopping item name is required")

// FromParsed turns a parsed free-text line into a candidate.
func FromParsed(p quantity.ParsedItem) Candidate {
	return Candidate{Name: p.Name, Quantity: p.Quantity, Unit: p.Unit}
}

// NewItem builds a fresh unchecked row with its heuristic category.
func NewItem(c Candidate, sortOrder float64) Item {
	unit := c.Unit
	if unit == "" {
		unit = quantity.DefaultUnit
	}
	return Item{
		Name:      c.Name,
		Quantity:  c.Quantity,
		Unit:      unit,
		Category:  quantity.CategoryFor(c.Name),
		SortOrder: sortOrder,
		RecipeID:  c.RecipeID,
	}
}

// Between returns the sort order for an item dropped between two neighbours.
// A nil neighbour means the item goes to that end of the list.
func Between(before, after *float64) float64 {
	switch {
	case before != nil && after != nil:
		return (*before + *after) / 2
	case before != nil:
		return *before + 1
	case after != nil:
		return *after - 1
	default:
		return 0
	}
}

// Merge collapses candidates with the same natural key, summing quantities. First spelling wins.
func Merge(candidates []Candidate) []Candidate {
	index := make(map[string]int, len(candidates))
	var out []Candidate
	for _, c := range candidates {
		key := quantity.NameKey(c.Name)
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			out[i].Quantity += c.Quantity
			continue
		}
		index[key] = len(out)
		out = append(out, c)
	}
	return out
}

// Apply merges a patch into the item
func (i *Item) Apply(p Patch) {
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Quantity != nil {
		i.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		i.Unit = *p.Unit
	}
	if p.IsChecked != nil {
		i.IsChecked = *p.IsChecked
	}
	if p.Category != nil {
		i.Category = *p.Category
	}
	if p.SortOrder != nil {
		i.SortOrder = *p.SortOrder
	}
}
