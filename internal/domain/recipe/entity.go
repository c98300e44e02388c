// Package recipe contains the recipe book's record types and the read-time helpers
// (servings parsing, ingredient flattening, scaling projection) built on them.
package recipe

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alchemorsel/kitchen/internal/domain/quantity"
)

// Recipe is a saved recipe. RecipeTitle is the natural key used by the seed sync.
type Recipe struct {
	ID                  uint64            `json:"id,omitempty"`
	RecipeTitle         string            `json:"recipeTitle" validate:"required"`
	ShortDescription    string            `json:"shortDescription"`
	PrepTime            string            `json:"prepTime"`
	CookTime            string            `json:"cookTime"`
	TotalTime           string            `json:"totalTime"`
	Servings            string            `json:"servings"`
	Difficulty          string            `json:"difficulty"`
	Ingredients         []IngredientGroup `json:"ingredients" validate:"dive"`
	Instructions        []string          `json:"instructions"`
	NutritionPerServing NutritionInfo     `json:"nutritionPerServing"`
	Tags                Tags              `json:"tags"`
	ExpertTips          []ExpertTip       `json:"expertTips"`
	IsFavorite          bool              `json:"isFavorite"`
	UpdatedAt           *int64            `json:"updatedAt,omitempty"`
}

// IngredientGroup is an optionally titled section of the ingredient list.
type IngredientGroup struct {
	SectionTitle string       `json:"sectionTitle,omitempty"`
	Items        []Ingredient `json:"items" validate:"dive"`
}

// Ingredient keeps its quantity as text ("2-3", "1/2", "etwas").
type Ingredient struct {
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Name     string `json:"name" validate:"required"`
}

// NutritionInfo is per serving, as the generator reports it.
type NutritionInfo struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Fat      string `json:"fat"`
	Carbs    string `json:"carbs"`
}

// Tags groups the recipe's classification labels.
type Tags struct {
	Course         []string `json:"course"`
	Cuisine        []string `json:"cuisine"`
	Occasion       []string `json:"occasion"`
	MainIngredient []string `json:"mainIngredient"`
	PrepMethod     []string `json:"prepMethod"`
	Difficulty     []string `json:"difficulty"`
	TotalTime      []string `json:"totalTime"`
	Diet           []string `json:"diet"`
}

// ExpertTip is a titled hint shown alongside the instructions.
type ExpertTip struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// TagGroup names one of the Tags fields.
type TagGroup string

const (
	TagCourse         TagGroup = "course"
	TagCuisine        TagGroup = "cuisine"
	TagOccasion       TagGroup = "occasion"
	TagMainIngredient TagGroup = "mainIngredient"
	TagPrepMethod     TagGroup = "prepMethod"
	TagDifficulty     TagGroup = "difficulty"
	TagTotalTime      TagGroup = "totalTime"
	TagDiet           TagGroup = "diet"
)

// Group returns the values of one tag group; an unknown group yields every tag.
func (t Tags) Group(g TagGroup) []string {
	switch g {
	case TagCourse:
		return t.Course
	case TagCuisine:
		return t.Cuisine
	case TagOccasion:
		return t.Occasion
	case TagMainIngredient:
		return t.MainIngredient
	case TagPrepMethod:
		return t.PrepMethod
	case TagDifficulty:
		return t.Difficulty
	case TagTotalTime:
		return t.TotalTime
	case TagDiet:
		return t.Diet
	}
	var all []string
	for _, group := range [][]string{t.Course, t.Cuisine, t.Occasion, t.MainIngredient,
		t.PrepMethod, t.Difficulty, t.TotalTime, t.Diet} {
		all = append(all, group...)
	}
	return all
}

// HasTag reports whether value appears (case-insensitively) in the given group.
func (t Tags) HasTag(g TagGroup, value string) bool {
	for _, v := range t.Group(g) {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

var leadingInteger = regexp.MustCompile(`\d+`)

// BaseServings extracts the first integer from the free-text servings ("4 Personen").
// ok is false when the text holds no positive number.
func (r *Recipe) BaseServings() (int, bool) {
	m := leadingInteger.FindString(r.Servings)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// AllIngredients flattens every group into one list, in order.
func (r *Recipe) AllIngredients() []Ingredient {
	var out []Ingredient
	for _, g := range r.Ingredients {
		out = append(out, g.Items...)
	}
	return out
}

// IsOptional reports ingredients that never count as missing: "optional" or "nach Geschmack".
func (i Ingredient) IsOptional() bool {
	name := strings.ToLower(i.Name)
	return strings.Contains(name, "optional") || strings.Contains(name, "nach geschmack")
}

// Scaled returns a copy of the recipe with every ingredient quantity scaled to servings.
// It is a projection only; nothing is persisted. Unparseable base servings leave it unchanged.
func (r *Recipe) Scaled(servings int) Recipe {
	out := *r
	base, ok := r.BaseServings()
	if !ok || servings <= 0 || servings == base {
		return out
	}
	factor := float64(servings) / float64(base)

	out.Ingredients = make([]IngredientGroup, len(r.Ingredients))
	for gi, g := range r.Ingredients {
		items := make([]Ingredient, len(g.Items))
		for ii, it := range g.Items {
			it.Quantity = quantity.Scale(it.Quantity, factor)
			items[ii] = it
		}
		out.Ingredients[gi] = IngredientGroup{SectionTitle: g.SectionTitle, Items: items}
	}
	out.Servings = strings.Replace(r.Servings, strconv.Itoa(base), strconv.Itoa(servings), 1)
	return out
}
