// Package mealplan holds the (date, meal slot) assignments of recipes or notes
package mealplan

import (
	"errors"
	"time"
)

// DateLayout is the ISO date format of Date and CookedDate
const DateLayout = "2006-01-02"

// MealType is the meal slot of an entry
type MealType string

const (
	Breakfast MealType = "Frühstück"
	Lunch     MealType = "Mittagessen"
	Dinner    MealType = "Abendessen"
)

// Domain errors for meal plan entries
var (
	ErrRecipeOrNote    = errors.New("exactly one of recipeId or note must be set")
	ErrInvalidMealType = errors.New("meal type must be Frühstück, Mittagessen or Abendessen")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
)

// MealTypes lists the slots in day order
func MealTypes() []MealType {
	return []MealType{Breakfast, Lunch, Dinner}
}

// Valid reports whether t is one of the three slots
func (t MealType) Valid() bool {
	switch t {
	case Breakfast, Lunch, Dinner:
		return true
	}
	return false
}

// Entry is one planned meal. A recipe entry has RecipeID; a note entry ("Essen gehen") has Note.
type Entry struct {
	ID         uint64   `json:"id,omitempty"`
	Date       string   `json:"date" validate:"required,datetime=2006-01-02"`
	MealType   MealType `json:"mealType" validate:"required,oneof=Frühstück Mittagessen Abendessen"`
	RecipeID   *uint64  `json:"recipeId,omitempty"`
	Note       *string  `json:"note,omitempty"`
	Servings   *int     `json:"servings,omitempty" validate:"omitempty,gt=0"`
	IsCooked   bool     `json:"isCooked"`
	CookedDate *string  `json:"cookedDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Patch is a partial update. Setting RecipeID clears the note and vice versa.
type Patch struct {
	Date     *string   `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MealType *MealType `json:"mealType,omitempty"`
	RecipeID *uint64   `json:"recipeId,omitempty"`
	Note     *string   `json:"note,omitempty"`
	Servings *int      `json:"servings,omitempty" validate:"omitempty,gt=0"`
}

// HasRecipe reports whether the entry points at a recipe
func (e *Entry) HasRecipe() bool {
	return e.RecipeID != nil && *e.RecipeID != 0
}

// Check enforces the entry invariants that struct tags cannot express
func (e *Entry) Check() error {
	hasNote := e.Note != nil && *e.Note != ""
	if e.HasRecipe() == hasNote {
		return ErrRecipeOrNote
	}
	if !e.MealType.Valid() {
		return ErrInvalidMealType
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Apply merges a patch into the entry
func (e *Entry) Apply(p Patch) {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.MealType != nil {
		e.MealType = *p.MealType
	}
	if p.RecipeID != nil {
		e.RecipeID = p.RecipeID
		e.Note = nil
	}
	if p.Note != nil {
		e.Note = p.Note
		e.RecipeID = nil
	}
	if p.Servings != nil {
		e.Servings = p.Servings
	}
}

// MarkCooked is the terminal cook transition. It returns false when the entry was already cooked.
func (e *Entry) MarkCooked(today time.Time) bool {
	if e.IsCooked {
		return false
	}
	d := today.Format(DateLayout)
	e.IsCooked = true
	e.CookedDate = &d
	return true
}

// InRange reports whether the entry's date lies in [from, to]; empty bounds are open
func (e *Entry) InRange(from, to string) bool {
	if from != "" && e.Date < from {
		return false
	}
	if to != "" && e.Date > to {
		return false
	}
	return true
}
