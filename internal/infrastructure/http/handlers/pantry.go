package handlers

import (
	"net/http"

	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/ports/inbound"
)

// ListPantry handles GET /api/pantry
func (h *Handlers) ListPantry(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.kitchen.ListPantry(r.Context(), inbound.PantryQuery{
		Category:       q.Get("category"),
		Search:         q.Get("search"),
		ExpiringBefore: q.Get("expiringBefore"),
		OrderBy:        q.Get("orderBy"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

// GetPantryItem handles GET /api/pantry/{id}
func (h *Handlers) GetPantryItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	item, err := h.kitchen.GetPantryItem(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

// CreatePantryItem handles POST /api/pantry
func (h *Handlers) CreatePantryItem(w http.ResponseWriter, r *http.Request) {
	var item pantry.Item
	if err := decode(r, &item); err != nil {
		h.writeError(w, r, err)
		return
	}
	created, err := h.kitchen.CreatePantryItem(r.Context(), item)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// BulkCreatePantryItems handles POST /api/pantry/bulk
func (h *Handlers) BulkCreatePantryItems(w http.ResponseWriter, r *http.Request) {
	var items []pantry.Item
	if err := decode(r, &items); err != nil {
		h.writeError(w, r, err)
		return
	}
	created, err := h.kitchen.BulkCreatePantryItems(r.Context(), items)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// UpdatePantryItem handles PATCH /api/pantry/{id}
func (h *Handlers) UpdatePantryItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch pantry.Patch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	item, err := h.kitchen.UpdatePantryItem(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

type adjustRequest struct {
	Delta float64 `json:"delta"`
}

// AdjustPantryQuantity handles POST /api/pantry/{id}/adjust. The item is null
// in the response when the adjustment used it up.
func (h *Handlers) AdjustPantryQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req adjustRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	item, err := h.kitchen.AdjustPantryQuantity(r.Context(), id, req.Delta)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"item": item})
}

// DeletePantryItem handles DELETE /api/pantry/{id}
func (h *Handlers) DeletePantryItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	deleted, err := h.kitchen.DeletePantryItem(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, deletedResponse{Deleted: deleted})
}

// BulkDeletePantryItems handles POST /api/pantry/bulk-delete
func (h *Handlers) BulkDeletePantryItems(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	n, err := h.kitchen.BulkDeletePantryItems(r.Context(), req.IDs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// AddOrUpdatePantryItem handles POST /api/pantry/merge
func (h *Handlers) AddOrUpdatePantryItem(w http.ResponseWriter, r *http.Request) {
	var candidate pantry.Item
	if err := decode(r, &candidate); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.kitchen.AddOrUpdatePantryItem(r.Context(), candidate)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

type nameRequest struct {
	Name string `json:"name"`
}

// RemoveItemFromPantry handles POST /api/pantry/remove
func (h *Handlers) RemoveItemFromPantry(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	removed, err := h.kitchen.RemoveItemFromPantry(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, deletedResponse{Deleted: removed})
}

// AddLowStockToShoppingList handles POST /api/pantry/low-stock/shopping-list
func (h *Handlers) AddLowStockToShoppingList(w http.ResponseWriter, r *http.Request) {
	result, err := h.kitchen.AddLowStockToShoppingList(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}
