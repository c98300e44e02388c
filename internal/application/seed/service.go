package seed

import (
	"context"
	"time"

	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/domain/shared"
	"github.com/alchemorsel/kitchen/internal/ports/inbound"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/alchemorsel/kitchen/pkg/errors"
	"go.uber.org/zap"
)

// SeededKey is the store marker written by the first sync
const SeededKey = "seeded_at"

// Service implements inbound.SeedService
type Service struct {
	store  outbound.Store
	feed   outbound.ChangeFeed
	now    func() time.Time
	logger *zap.Logger
}

var _ inbound.SeedService = (*Service)(nil)

// NewService creates a seed service
func NewService(store outbound.Store, feed outbound.ChangeFeed, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		feed:   feed,
		now:    time.Now,
		logger: logger.Named("seed"),
	}
}

// WithClock replaces time.Now for the starter pantry's expiry dates
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Sync seeds a store that was never seeded with the starter pantry and the whole
// catalog. Later runs only insert catalog recipes whose exact title is not stored
// yet; stored recipes are never changed. A store emptied by the user or by an
// import is not seeded again.
func (s *Service) Sync(ctx context.Context) (*inbound.SyncResult, error) {
	catalog, err := Catalog()
	if err != nil {
		return nil, errors.NewInternalError("bundled recipe catalog is invalid").WithCause(err)
	}

	result := &inbound.SyncResult{AddedTitles: []string{}}

	err = s.store.Transaction(ctx, func(tx outbound.Store) error {
		titles, err := tx.Recipes().Titles(ctx)
		if err != nil {
			return err
		}
		stock, err := tx.Pantry().List(ctx, outbound.PantryQuery{})
		if err != nil {
			return err
		}
		_, seeded, err := tx.Meta(ctx, SeededKey)
		if err != nil {
			return err
		}
		// stores from before the marker existed count as seeded once they hold data
		result.FirstRun = !seeded && len(titles) == 0 && len(stock) == 0

		if result.FirstRun {
			starter := StarterPantry(s.now())
			items := make([]*pantry.Item, len(starter))
			for i := range starter {
				items[i] = &starter[i]
			}
			if err := tx.Pantry().BulkInsert(ctx, items); err != nil {
				return err
			}
			result.PantrySeeded = len(items)
		}

		stored := make(map[string]bool, len(titles))
		for _, t := range titles {
			stored[t] = true
		}

		var missing []*recipe.Recipe
		for i := range catalog {
			if stored[catalog[i].RecipeTitle] {
				continue
			}
			missing = append(missing, &catalog[i])
			result.AddedTitles = append(result.AddedTitles, catalog[i].RecipeTitle)
		}
		if err := tx.Recipes().BulkInsert(ctx, missing); err != nil {
			return err
		}
		result.RecipesAdded = len(missing)

		if seeded {
			return nil
		}
		return tx.SetMeta(ctx, SeededKey, s.now().UTC().Format(time.RFC3339))
	})
	if err != nil {
		s.logger.Error("Seed sync failed", zap.Error(err))
		return nil, errors.NewDatabaseError("seed sync", err)
	}

	if result.PantrySeeded > 0 {
		s.feed.Publish(shared.NewChange(shared.CollectionPantry, shared.OpReset))
	}
	if result.RecipesAdded > 0 {
		s.feed.Publish(shared.NewChange(shared.CollectionRecipes, shared.OpReset))
	}

	s.logger.Info("Seed sync completed",
		zap.Bool("first_run", result.FirstRun),
		zap.Int("pantry_seeded", result.PantrySeeded),
		zap.Int("recipes_added", result.RecipesAdded),
	)
	return result, nil
}
