package ai

import (
	"fmt"
	"strings"

	"github.com/alchemorsel/kitchen/internal/domain/quantity"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
)

const ideasSystemPrompt = `Du bist ein erfahrener Koch. Schlage genau drei Rezeptideen vor.
Antworte NUR mit JSON in dieser Form:
{"ideas": [{"title": "...", "description": "ein Satz"}]}`

const recipeSystemPrompt = `Du bist ein erfahrener Koch. Schreibe ein vollständiges Rezept auf Deutsch.
Antworte NUR mit JSON in dieser Form:
{
  "recipeTitle": "...",
  "shortDescription": "...",
  "prepTime": "15 Min.",
  "cookTime": "20 Min.",
  "totalTime": "35 Min.",
  "servings": "2 Personen",
  "difficulty": "einfach",
  "ingredients": [{"sectionTitle": "", "items": [{"quantity": "200", "unit": "g", "name": "Nudeln"}]}],
  "instructions": ["..."],
  "nutritionPerServing": {"calories": "", "protein": "", "fat": "", "carbs": ""},
  "tags": {"course": [], "cuisine": [], "occasion": [], "mainIngredient": [], "prepMethod": [], "difficulty": [], "totalTime": [], "diet": []},
  "expertTips": [{"title": "...", "content": "..."}]
}`

const shoppingSystemPrompt = `Du hilfst beim Einkaufen. Erstelle eine Einkaufsliste für das Ziel des Nutzers
und lass weg, was schon im Vorrat ist. Antworte NUR mit JSON in dieser Form:
{"items": [{"name": "Mehl", "quantity": 1, "unit": "kg"}]}`

// userPrompt renders the request, the pantry snapshot and the preferences
func userPrompt(req outbound.GenerationRequest) string {
	var b strings.Builder
	b.WriteString(req.Prompt)

	if len(req.Pantry) > 0 {
		b.WriteString("\n\nVorrat:")
		for _, item := range req.Pantry {
			fmt.Fprintf(&b, "\n- %s %s %s", quantity.Format(item.Quantity), item.Unit, item.Name)
		}
	}

	p := req.Preferences
	writeList(&b, "Ernährung", p.Diet)
	writeList(&b, "Allergien", p.Allergies)
	writeList(&b, "Nicht mögen", p.DislikedFoods)
	writeList(&b, "Bevorzugte Küchen", p.PreferredCuisines)
	if p.SkillLevel != "" {
		fmt.Fprintf(&b, "\nKochniveau: %s", p.SkillLevel)
	}
	if p.MaxPrepMinutes > 0 {
		fmt.Fprintf(&b, "\nMaximale Zubereitungszeit: %d Minuten", p.MaxPrepMinutes)
	}
	if p.PreferPantryItems {
		b.WriteString("\nBevorzuge Zutaten aus dem Vorrat.")
	}
	return b.String()
}

func writeList(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s: %s", label, strings.Join(values, ", "))
}
