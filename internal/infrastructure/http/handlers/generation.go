package handlers

import (
	"net/http"

	"github.com/alchemorsel/kitchen/internal/ports/outbound"
)

type promptRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateRecipeIdeas handles POST /api/ai/ideas
func (h *Handlers) GenerateRecipeIdeas(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	ideas, err := h.kitchen.GenerateRecipeIdeas(r.Context(), req.Prompt)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ideas)
}

// GenerateRecipe handles POST /api/ai/recipe. The recipe is not saved.
func (h *Handlers) GenerateRecipe(w http.ResponseWriter, r *http.Request) {
	var idea outbound.RecipeIdea
	if err := decode(r, &idea); err != nil {
		h.writeError(w, r, err)
		return
	}
	rec, err := h.kitchen.GenerateRecipe(r.Context(), idea)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

type goalRequest struct {
	Goal string `json:"goal"`
}

// GenerateShoppingList handles POST /api/ai/shopping-list
func (h *Handlers) GenerateShoppingList(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.kitchen.GenerateShoppingListWithAI(r.Context(), req.Goal)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}
