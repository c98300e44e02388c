package handlers

import (
	"net/http"
	"strconv"

	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/ports/inbound"
	"github.com/alchemorsel/kitchen/pkg/errors"
)

func recipeQuery(r *http.Request) inbound.RecipeQuery {
	q := r.URL.Query()
	return inbound.RecipeQuery{
		Search:        q.Get("search"),
		FavoritesOnly: boolQuery(r, "favorites"),
		TagGroup:      recipe.TagGroup(q.Get("tagGroup")),
		Tag:           q.Get("tag"),
		OrderBy:       q.Get("orderBy"),
	}
}

// ListRecipes handles GET /api/recipes
func (h *Handlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.kitchen.ListRecipes(r.Context(), recipeQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, recipes)
}

// RecipesWithPantryStatus handles GET /api/recipes/with-status
func (h *Handlers) RecipesWithPantryStatus(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.kitchen.RecipesWithPantryStatus(r.Context(), recipeQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, recipes)
}

// GetRecipe handles GET /api/recipes/{id}
func (h *Handlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rec, err := h.kitchen.GetRecipe(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

// SaveRecipe handles POST /api/recipes
func (h *Handlers) SaveRecipe(w http.ResponseWriter, r *http.Request) {
	var rec recipe.Recipe
	if err := decode(r, &rec); err != nil {
		h.writeError(w, r, err)
		return
	}
	saved, err := h.kitchen.SaveRecipe(r.Context(), rec)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, saved)
}

// UpdateRecipe handles PATCH /api/recipes/{id}
func (h *Handlers) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch inbound.RecipePatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	rec, err := h.kitchen.UpdateRecipe(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

// ToggleFavorite handles POST /api/recipes/{id}/favorite
func (h *Handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rec, err := h.kitchen.ToggleFavorite(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

// DeleteRecipe handles DELETE /api/recipes/{id}
func (h *Handlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	deleted, err := h.kitchen.DeleteRecipe(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, deletedResponse{Deleted: deleted})
}

// BulkDeleteRecipes handles POST /api/recipes/bulk-delete
func (h *Handlers) BulkDeleteRecipes(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	n, err := h.kitchen.BulkDeleteRecipes(r.Context(), req.IDs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// ScaleRecipe handles GET /api/recipes/{id}/scaled?servings=N
func (h *Handlers) ScaleRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	servings, err := strconv.Atoi(r.URL.Query().Get("servings"))
	if err != nil {
		h.writeError(w, r, errors.NewBadRequestError("servings must be a number"))
		return
	}
	rec, err := h.kitchen.ScaleRecipe(r.Context(), id, servings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

// RecipePantryStatus handles GET /api/recipes/{id}/pantry-status
func (h *Handlers) RecipePantryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status, err := h.kitchen.RecipePantryStatus(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

// AddMissingIngredients handles POST /api/recipes/{id}/shopping-list
func (h *Handlers) AddMissingIngredients(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	added, err := h.kitchen.AddMissingIngredientsToShoppingList(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"added": added})
}
