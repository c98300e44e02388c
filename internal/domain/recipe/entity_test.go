package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecipe() *Recipe {
	return &Recipe{
		RecipeTitle: "Pfannkuchen",
		Servings:    "4 Personen",
		Ingredients: []IngredientGroup{
			{Items: []Ingredient{
				{Quantity: "250", Unit: "g", Name: "Mehl"},
				{Quantity: "1/2", Unit: "l", Name: "Milch"},
			}},
			{SectionTitle: "Topping", Items: []Ingredient{
				{Quantity: "2-3", Unit: "EL", Name: "Zucker"},
				{Quantity: "etwas", Name: "Salz nach Geschmack"},
			}},
		},
	}
}

func TestBaseServings(t *testing.T) {
	tests := []struct {
		servings string
		want     int
		ok       bool
	}{
		{"4 Personen", 4, true},
		{"für 2", 2, true},
		{"6", 6, true},
		{"ein paar", 0, false},
		{"", 0, false},
		{"0 Portionen", 0, false},
	}
	for _, tt := range tests {
		r := Recipe{Servings: tt.servings}
		got, ok := r.BaseServings()
		assert.Equal(t, tt.ok, ok, tt.servings)
		assert.Equal(t, tt.want, got, tt.servings)
	}
}

func TestAllIngredients(t *testing.T) {
	r := sampleRecipe()
	all := r.AllIngredients()
	require.Len(t, all, 4)
	assert.Equal(t, "Mehl", all[0].Name)
	assert.Equal(t, "Salz nach Geschmack", all[3].Name)
}

func TestIsOptional(t *testing.T) {
	assert.True(t, Ingredient{Name: "Salz nach Geschmack"}.IsOptional())
	assert.True(t, Ingredient{Name: "Petersilie (optional)"}.IsOptional())
	assert.True(t, Ingredient{Name: "Pfeffer NACH GESCHMACK"}.IsOptional())
	assert.False(t, Ingredient{Name: "Mehl"}.IsOptional())
}

func TestScaledIsProjection(t *testing.T) {
	r := sampleRecipe()

	scaled := r.Scaled(8)

	assert.Equal(t, "8 Personen", scaled.Servings)
	assert.Equal(t, "500", scaled.Ingredients[0].Items[0].Quantity)
	assert.Equal(t, "1", scaled.Ingredients[0].Items[1].Quantity)
	assert.Equal(t, "4-6", scaled.Ingredients[1].Items[0].Quantity)
	assert.Equal(t, "etwas", scaled.Ingredients[1].Items[1].Quantity)
	assert.Equal(t, "Topping", scaled.Ingredients[1].SectionTitle)

	// original untouched
	assert.Equal(t, "250", r.Ingredients[0].Items[0].Quantity)
	assert.Equal(t, "4 Personen", r.Servings)
}

func TestScaledWithoutBaseServings(t *testing.T) {
	r := sampleRecipe()
	r.Servings = "viele"
	scaled := r.Scaled(8)
	assert.Equal(t, "250", scaled.Ingredients[0].Items[0].Quantity)
}

func TestTags(t *testing.T) {
	tags := Tags{Cuisine: []string{"Italienisch"}, Diet: []string{"Vegetarisch"}}
	assert.True(t, tags.HasTag(TagCuisine, "italienisch"))
	assert.False(t, tags.HasTag(TagDiet, "Italienisch"))
	assert.True(t, tags.HasTag("", "Vegetarisch"))
	assert.Len(t, tags.Group(""), 2)
}
