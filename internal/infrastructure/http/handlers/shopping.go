package handlers

import (
	"net/http"

	"github.com/alchemorsel/kitchen/internal/domain/shopping"
	"github.com/alchemorsel/kitchen/internal/ports/inbound"
)

// ListShoppingList handles GET /api/shopping-list?category=&checked=
func (h *Handlers) ListShoppingList(w http.ResponseWriter, r *http.Request) {
	q := inbound.ShoppingQuery{Category: r.URL.Query().Get("category")}
	if r.URL.Query().Has("checked") {
		checked := boolQuery(r, "checked")
		q.Checked = &checked
	}
	items, err := h.kitchen.ListShoppingList(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

// ShoppingCategories handles GET /api/shopping-list/categories
func (h *Handlers) ShoppingCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.kitchen.ShoppingCategories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, categories)
}

type textRequest struct {
	Text string `json:"text"`
}

// QuickAddShoppingItem handles POST /api/shopping-list/quick-add
func (h *Handlers) QuickAddShoppingItem(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	item, err := h.kitchen.QuickAddShoppingItem(r.Context(), req.Text)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

// BulkAddFromText handles POST /api/shopping-list/bulk-text
func (h *Handlers) BulkAddFromText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.kitchen.BulkAddFromText(r.Context(), req.Text)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// BatchAddShoppingListItems handles POST /api/shopping-list/batch
func (h *Handlers) BatchAddShoppingListItems(w http.ResponseWriter, r *http.Request) {
	var items []shopping.Candidate
	if err := decode(r, &items); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.kitchen.BatchAddShoppingListItems(r.Context(), items)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// UpdateShoppingItem handles PATCH /api/shopping-list/{id}
func (h *Handlers) UpdateShoppingItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch shopping.Patch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	item, err := h.kitchen.UpdateShoppingItem(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

type checkRequest struct {
	Checked bool `json:"checked"`
}

// SetShoppingItemChecked handles POST /api/shopping-list/{id}/check
func (h *Handlers) SetShoppingItemChecked(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req checkRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	item, err := h.kitchen.SetShoppingItemChecked(r.Context(), id, req.Checked)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

type reorderRequest struct {
	BeforeID *uint64 `json:"beforeId"`
	AfterID  *uint64 `json:"afterId"`
}

// ReorderShoppingItem handles POST /api/shopping-list/{id}/reorder
func (h *Handlers) ReorderShoppingItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req reorderRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	item, err := h.kitchen.ReorderShoppingItem(r.Context(), id, req.BeforeID, req.AfterID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

// DeleteShoppingItem handles DELETE /api/shopping-list/{id}
func (h *Handlers) DeleteShoppingItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	deleted, err := h.kitchen.DeleteShoppingItem(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, deletedResponse{Deleted: deleted})
}

// BulkDeleteShoppingItems handles POST /api/shopping-list/bulk-delete
func (h *Handlers) BulkDeleteShoppingItems(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	n, err := h.kitchen.BulkDeleteShoppingItems(r.Context(), req.IDs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// ClearShoppingList handles DELETE /api/shopping-list?checked=true
func (h *Handlers) ClearShoppingList(w http.ResponseWriter, r *http.Request) {
	n, err := h.kitchen.ClearShoppingList(r.Context(), boolQuery(r, "checked"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// MoveCheckedToPantry handles POST /api/shopping-list/move-to-pantry
func (h *Handlers) MoveCheckedToPantry(w http.ResponseWriter, r *http.Request) {
	moved, err := h.kitchen.MoveCheckedToPantry(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"moved": moved})
}

type renameRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RenameShoppingListCategory handles POST /api/shopping-list/categories/rename
func (h *Handlers) RenameShoppingListCategory(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.kitchen.RenameShoppingListCategory(r.Context(), req.From, req.To); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, renameRequest{From: req.From, To: req.To})
}
