// Package transfer exports the whole store as one JSON snapshot and imports such a
// snapshot back as a destructive replace.
package transfer

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/alchemorsel/kitchen/internal/domain/mealplan"
	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/domain/settings"
	"github.com/alchemorsel/kitchen/internal/domain/shared"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
	"github.com/alchemorsel/kitchen/internal/ports/inbound"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/alchemorsel/kitchen/pkg/errors"
	"github.com/alchemorsel/kitchen/pkg/validation"
	"go.uber.org/zap"
)

// Service implements inbound.TransferService
type Service struct {
	store     outbound.Store
	feed      outbound.ChangeFeed
	settings  outbound.SettingsStore
	validator *validation.Validator
	logger    *zap.Logger
}

var _ inbound.TransferService = (*Service)(nil)

// NewService creates a transfer service
func NewService(store outbound.Store, feed outbound.ChangeFeed, settingsStore outbound.SettingsStore, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		feed:      feed,
		settings:  settingsStore,
		validator: validation.New(),
		logger:    logger.Named("transfer"),
	}
}

// Export reads all four collections in one transaction together with the settings
func (s *Service) Export(ctx context.Context) (*inbound.Snapshot, error) {
	snap := &inbound.Snapshot{
		Pantry:       []*pantry.Item{},
		Recipes:      []*recipe.Recipe{},
		MealPlan:     []*mealplan.Entry{},
		ShoppingList: []*shopping.Item{},
	}

	err := s.store.Transaction(ctx, func(tx outbound.Store) error {
		var err error
		if snap.Pantry, err = tx.Pantry().List(ctx, outbound.PantryQuery{OrderBy: "createdAt"}); err != nil {
			return err
		}
		if snap.Recipes, err = tx.Recipes().List(ctx, outbound.RecipeQuery{OrderBy: "id"}); err != nil {
			return err
		}
		if snap.MealPlan, err = tx.MealPlan().List(ctx, outbound.MealPlanQuery{}); err != nil {
			return err
		}
		snap.ShoppingList, err = tx.ShoppingList().List(ctx, outbound.ShoppingQuery{})
		return err
	})
	if err != nil {
		return nil, errors.NewDatabaseError("export", err)
	}

	current, err := s.settings.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load settings")
	}
	snap.Settings = &current

	return snap, nil
}

// WriteExport writes the snapshot as indented JSON
func (s *Service) WriteExport(ctx context.Context, w io.Writer) error {
	snap, err := s.Export(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return errors.Wrap(err, "failed to write export")
	}

	s.logger.Info("Store exported",
		zap.Int("pantry", len(snap.Pantry)),
		zap.Int("recipes", len(snap.Recipes)),
		zap.Int("meal_plan", len(snap.MealPlan)),
		zap.Int("shopping_list", len(snap.ShoppingList)),
	)
	return nil
}

// Import clears all four collections and inserts the snapshot's rows, keeping their
// ids so meal plan entries still point at their recipes. Nothing is written when the
// snapshot does not parse or validate.
func (s *Service) Import(ctx context.Context, r io.Reader) (*inbound.ImportResult, error) {
	snap, err := decode(r)
	if err != nil {
		return nil, err
	}
	if err := s.check(snap); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx outbound.Store) error {
		if err := tx.Pantry().Clear(ctx); err != nil {
			return err
		}
		if err := tx.Recipes().Clear(ctx); err != nil {
			return err
		}
		if err := tx.MealPlan().Clear(ctx); err != nil {
			return err
		}
		if err := tx.ShoppingList().Clear(ctx); err != nil {
			return err
		}

		if err := tx.Pantry().BulkInsert(ctx, snap.Pantry); err != nil {
			return err
		}
		if err := tx.Recipes().BulkInsert(ctx, snap.Recipes); err != nil {
			return err
		}
		if err := tx.MealPlan().BulkInsert(ctx, snap.MealPlan); err != nil {
			return err
		}
		return tx.ShoppingList().BulkInsert(ctx, snap.ShoppingList)
	})
	if err != nil {
		s.logger.Error("Import failed", zap.Error(err))
		return nil, errors.NewDatabaseError("import", err)
	}

	for _, c := range shared.Collections() {
		s.feed.Publish(shared.NewChange(c, shared.OpReset))
	}

	result := &inbound.ImportResult{
		Pantry:       len(snap.Pantry),
		Recipes:      len(snap.Recipes),
		MealPlan:     len(snap.MealPlan),
		ShoppingList: len(snap.ShoppingList),
	}

	if snap.Settings != nil {
		if err := s.settings.Save(*snap.Settings); err != nil {
			return nil, errors.Wrap(err, "failed to save imported settings")
		}
		result.Settings = true
	}

	s.logger.Info("Store imported",
		zap.Int("pantry", result.Pantry),
		zap.Int("recipes", result.Recipes),
		zap.Int("meal_plan", result.MealPlan),
		zap.Int("shopping_list", result.ShoppingList),
		zap.Bool("settings", result.Settings),
	)
	return result, nil
}

// document shadows the snapshot's settings so they can be merged over the defaults
type document struct {
	inbound.Snapshot
	Settings json.RawMessage `json:"settings"`
}

// decode reads a snapshot. Settings missing keys, as in exports from older versions,
// keep the default value for those keys.
func decode(r io.Reader) (*inbound.Snapshot, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.NewValidationError("import is not valid JSON").WithCause(err)
	}

	snap := doc.Snapshot
	raw := strings.TrimSpace(string(doc.Settings))
	if raw != "" && raw != "null" {
		merged := settings.Defaults()
		if err := json.Unmarshal(doc.Settings, &merged); err != nil {
			return nil, errors.NewValidationError("import settings are not valid").WithCause(err)
		}
		merged.Version = settings.CurrentVersion
		snap.Settings = &merged
	}
	return &snap, nil
}

// check validates the snapshot and trims names the way the write paths do
func (s *Service) check(snap *inbound.Snapshot) error {
	for _, item := range snap.Pantry {
		if item == nil {
			return errors.NewValidationError("pantry contains a null item")
		}
		item.Name = strings.TrimSpace(item.Name)
	}
	for _, r := range snap.Recipes {
		if r == nil {
			return errors.NewValidationError("recipes contain a null recipe")
		}
	}
	for _, e := range snap.MealPlan {
		if e == nil {
			return errors.NewValidationError("meal plan contains a null entry")
		}
	}
	for _, item := range snap.ShoppingList {
		if item == nil {
			return errors.NewValidationError("shopping list contains a null item")
		}
		item.Name = strings.TrimSpace(item.Name)
	}

	if err := s.validator.Struct(snap); err != nil {
		return err
	}
	for _, e := range snap.MealPlan {
		if err := e.Check(); err != nil {
			return errors.NewValidationError(err.Error()).WithCause(err).
				WithMetadata("entry_id", e.ID)
		}
	}
	return nil
}
