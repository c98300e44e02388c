package handlers

import (
	"net/http"

	"github.com/alchemorsel/kitchen/internal/domain/mealplan"
	"github.com/alchemorsel/kitchen/internal/ports/inbound"
)

// ListMealPlan handles GET /api/meal-plan?from=&to=&mealType=&open=
func (h *Handlers) ListMealPlan(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := h.kitchen.ListMealPlan(r.Context(), inbound.MealPlanQuery{
		From:     q.Get("from"),
		To:       q.Get("to"),
		MealType: mealplan.MealType(q.Get("mealType")),
		OnlyOpen: boolQuery(r, "open"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

// AddMealPlanEntry handles POST /api/meal-plan
func (h *Handlers) AddMealPlanEntry(w http.ResponseWriter, r *http.Request) {
	var entry mealplan.Entry
	if err := decode(r, &entry); err != nil {
		h.writeError(w, r, err)
		return
	}
	created, err := h.kitchen.AddMealPlanEntry(r.Context(), entry)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

type replanRequest struct {
	Date     string            `json:"date"`
	MealType mealplan.MealType `json:"mealType"`
}

// ReplanMealPlanEntry handles POST /api/meal-plan/{id}/replan
func (h *Handlers) ReplanMealPlanEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req replanRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	entry, err := h.kitchen.ReplanMealPlanEntry(r.Context(), id, req.Date, req.MealType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

// UpdateMealPlanEntry handles PATCH /api/meal-plan/{id}
func (h *Handlers) UpdateMealPlanEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch mealplan.Patch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	entry, err := h.kitchen.UpdateMealPlanEntry(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

// DeleteMealPlanEntry handles DELETE /api/meal-plan/{id}
func (h *Handlers) DeleteMealPlanEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	deleted, err := h.kitchen.DeleteMealPlanEntry(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, deletedResponse{Deleted: deleted})
}

// BulkDeleteMealPlanEntries handles POST /api/meal-plan/bulk-delete
func (h *Handlers) BulkDeleteMealPlanEntries(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	n, err := h.kitchen.BulkDeleteMealPlanEntries(r.Context(), req.IDs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// MarkMealAsCooked handles POST /api/meal-plan/{id}/cook. An entry that is
// missing or already cooked answers 200 with success false in the data.
func (h *Handlers) MarkMealAsCooked(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.kitchen.MarkMealAsCooked(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// AddMissingIngredientsForMeals handles POST /api/meal-plan/shopping-list
func (h *Handlers) AddMissingIngredientsForMeals(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.kitchen.AddMissingIngredientsForMeals(r.Context(), req.IDs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

type rangeRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GenerateListFromMealPlan handles POST /api/meal-plan/generate-list
func (h *Handlers) GenerateListFromMealPlan(w http.ResponseWriter, r *http.Request) {
	var req rangeRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.kitchen.GenerateListFromMealPlan(r.Context(), req.From, req.To)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}
