package kitchen

import (
	"context"
	"strings"
	"time"

	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/shared"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
	"github.com/alchemorsel/kitchen/internal/ports/inbound"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/alchemorsel/kitchen/pkg/errors"
	"go.uber.org/zap"
)

const pantryResource = "Pantry item"

// ListPantry returns pantry rows with their expiry and low-stock status
func (s *Service) ListPantry(ctx context.Context, q inbound.PantryQuery) ([]inbound.PantryItemView, error) {
	items, err := s.store.Pantry().List(ctx, q)
	if err != nil {
		return nil, errors.NewDatabaseError("list pantry", err)
	}

	today := s.today()
	views := make([]inbound.PantryItemView, len(items))
	for i, item := range items {
		views[i] = inbound.PantryItemView{
			Item:         item,
			ExpiryStatus: item.Expiry(today),
			LowStock:     item.IsLowStock(),
		}
	}
	return views, nil
}

// GetPantryItem returns one pantry item
func (s *Service) GetPantryItem(ctx context.Context, id uint64) (*pantry.Item, error) {
	item, err := s.store.Pantry().FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(pantryResource, id, err)
	}
	return item, nil
}

// CreatePantryItem inserts a new row without merging by name
func (s *Service) CreatePantryItem(ctx context.Context, item pantry.Item) (*pantry.Item, error) {
	if err := s.preparePantryItem(&item); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Pantry().Insert(ctx, &item); err != nil {
		return nil, errors.NewDatabaseError("create pantry item", err)
	}
	s.publish(shared.CollectionPantry, shared.OpInsert, item.ID)

	s.logger.Info("Pantry item created",
		zap.Uint64("id", item.ID),
		zap.String("name", item.Name),
	)
	return &item, nil
}

// BulkCreatePantryItems inserts all items or none
func (s *Service) BulkCreatePantryItems(ctx context.Context, items []pantry.Item) ([]*pantry.Item, error) {
	out := make([]*pantry.Item, len(items))
	for i := range items {
		item := items[i]
		if err := s.preparePantryItem(&item); err != nil {
			return nil, err
		}
		out[i] = &item
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Pantry().BulkInsert(ctx, out); err != nil {
		return nil, errors.NewDatabaseError("bulk create pantry items", err)
	}
	if len(out) > 0 {
		s.publish(shared.CollectionPantry, shared.OpInsert, pantryIDs(out)...)
	}
	return out, nil
}

// UpdatePantryItem applies a partial update
func (s *Service) UpdatePantryItem(ctx context.Context, id uint64, patch pantry.Patch) (*pantry.Item, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	item, err := s.store.Pantry().FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(pantryResource, id, err)
	}

	item.Apply(patch)
	item.Name = strings.TrimSpace(item.Name)
	if err := s.validator.Struct(item); err != nil {
		return nil, err
	}

	if err := s.store.Pantry().Update(ctx, item); err != nil {
		return nil, lookupError(pantryResource, id, err)
	}
	s.publish(shared.CollectionPantry, shared.OpUpdate, id)
	return item, nil
}

// AdjustPantryQuantity adds delta to the quantity and deletes the item at ≤ 0
func (s *Service) AdjustPantryQuantity(ctx context.Context, id uint64, delta float64) (*pantry.Item, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	item, err := s.store.Pantry().FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(pantryResource, id, err)
	}

	deleted, err := s.decrement(ctx, s.store, item, -delta)
	if err != nil {
		return nil, err
	}
	if deleted {
		s.publish(shared.CollectionPantry, shared.OpDelete, id)
		return nil, nil
	}
	s.publish(shared.CollectionPantry, shared.OpUpdate, id)
	return item, nil
}

// DeletePantryItem deletes by id and reports whether the item existed
func (s *Service) DeletePantryItem(ctx context.Context, id uint64) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	deleted, err := s.store.Pantry().Delete(ctx, id)
	if err != nil {
		return false, errors.NewDatabaseError("delete pantry item", err)
	}
	if deleted {
		s.publish(shared.CollectionPantry, shared.OpDelete, id)
	}
	return deleted, nil
}

// BulkDeletePantryItems deletes the given ids and returns how many existed
func (s *Service) BulkDeletePantryItems(ctx context.Context, ids []uint64) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, err := s.store.Pantry().BulkDelete(ctx, ids)
	if err != nil {
		return 0, errors.NewDatabaseError("bulk delete pantry items", err)
	}
	if n > 0 {
		s.publish(shared.CollectionPantry, shared.OpDelete, ids...)
	}
	return n, nil
}

// AddOrUpdatePantryItem merges the candidate into the row of the same name, or inserts it
func (s *Service) AddOrUpdatePantryItem(ctx context.Context, candidate pantry.Item) (result *inbound.AddResult, err error) {
	defer s.track("add_or_update_pantry_item", time.Now(), &err)

	if err := s.preparePantryItem(&candidate); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	result, err = s.mergePantry(ctx, s.store, candidate)
	if err != nil {
		return nil, err
	}

	op := shared.OpUpdate
	if result.Status == inbound.StatusAdded {
		op = shared.OpInsert
	}
	s.publish(shared.CollectionPantry, op, result.Item.ID)

	s.logger.Info("Pantry item merged",
		zap.String("name", result.Item.Name),
		zap.String("status", string(result.Status)),
		zap.Float64("quantity", result.Item.Quantity),
	)
	return result, nil
}

// RemoveItemFromPantry deletes the item of that name; false means there was none
func (s *Service) RemoveItemFromPantry(ctx context.Context, name string) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	item, err := s.store.Pantry().FindByName(ctx, strings.TrimSpace(name))
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.NewDatabaseError("find pantry item", err)
	}

	deleted, err := s.store.Pantry().Delete(ctx, item.ID)
	if err != nil {
		return false, errors.NewDatabaseError("delete pantry item", err)
	}
	if deleted {
		s.publish(shared.CollectionPantry, shared.OpDelete, item.ID)
	}
	return deleted, nil
}

// AddLowStockToShoppingList merge-adds the shortfall of every item below its minimum
func (s *Service) AddLowStockToShoppingList(ctx context.Context) (result *inbound.BatchResult, err error) {
	defer s.track("add_low_stock_to_shopping_list", time.Now(), &err)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	items, err := s.store.Pantry().List(ctx, outbound.PantryQuery{})
	if err != nil {
		return nil, errors.NewDatabaseError("list pantry", err)
	}

	var candidates []shopping.Candidate
	for _, item := range items {
		if !item.IsLowStock() {
			continue
		}
		candidates = append(candidates, shopping.Candidate{
			Name:     item.Name,
			Quantity: item.Shortfall(),
			Unit:     item.Unit,
		})
	}

	return s.batchAdd(ctx, "add_low_stock_to_shopping_list", candidates)
}

// preparePantryItem normalises and validates an item before it is written
func (s *Service) preparePantryItem(item *pantry.Item) error {
	item.ID = 0
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return invalid(pantry.ErrNameRequired)
	}
	if item.ExpiryDate != nil && *item.ExpiryDate == "" {
		item.ExpiryDate = nil
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = s.now().UnixMilli()
	}
	return s.validator.Struct(item)
}

// mergePantry is the merge-add used by AddOrUpdatePantryItem and MoveCheckedToPantry
func (s *Service) mergePantry(ctx context.Context, store outbound.Store, candidate pantry.Item) (*inbound.AddResult, error) {
	existing, err := store.Pantry().FindByName(ctx, candidate.Name)
	switch {
	case err == nil:
		existing.Absorb(candidate)
		if err := store.Pantry().Update(ctx, existing); err != nil {
			return nil, errors.NewDatabaseError("update pantry item", err)
		}
		return &inbound.AddResult{Status: inbound.StatusUpdated, Item: existing}, nil

	case isNotFound(err):
		if err := store.Pantry().Insert(ctx, &candidate); err != nil {
			return nil, errors.NewDatabaseError("create pantry item", err)
		}
		return &inbound.AddResult{Status: inbound.StatusAdded, Item: &candidate}, nil

	default:
		return nil, errors.NewDatabaseError("find pantry item", err)
	}
}

// decrement lowers item's quantity by amount, deleting it when nothing is left.
// It reports whether the item was deleted.
func (s *Service) decrement(ctx context.Context, store outbound.Store, item *pantry.Item, amount float64) (bool, error) {
	remaining := item.Quantity - amount
	if remaining <= 0 {
		if _, err := store.Pantry().Delete(ctx, item.ID); err != nil {
			return false, errors.NewDatabaseError("delete pantry item", err)
		}
		item.Quantity = 0
		return true, nil
	}

	item.Quantity = remaining
	if err := store.Pantry().Update(ctx, item); err != nil {
		return false, lookupError(pantryResource, item.ID, err)
	}
	return false, nil
}

func pantryIDs(items []*pantry.Item) []uint64 {
	ids := make([]uint64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
