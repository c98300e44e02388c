package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alchemorsel/kitchen/internal/domain/mealplan"
	"github.com/alchemorsel/kitchen/internal/domain/settings"
	"github.com/alchemorsel/kitchen/internal/domain/shared"
	"github.com/alchemorsel/kitchen/internal/infrastructure/changefeed"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/alchemorsel/kitchen/pkg/errors"
	"github.com/alchemorsel/kitchen/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	db       *testutils.TestDatabase
	bus      *changefeed.Bus
	settings *testutils.MemorySettingsStore
	service  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:       testutils.NewTestDatabase(t),
		bus:      changefeed.NewBus(zap.NewNop()),
		settings: testutils.NewMemorySettingsStore(),
	}
	f.service = NewService(f.db.Store, f.bus, f.settings, zap.NewNop())
	return f
}

// fill stores one row per collection, with the meal plan entry pointing at the recipe
func (f *fixture) fill(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	factory := testutils.NewFactory(3)

	item := factory.PantryItem()
	require.NoError(t, f.db.Store.Pantry().Insert(ctx, &item))

	r := factory.Recipe().WithTitle("Pfannkuchen").WithIngredient("250", "g", "Mehl").Build()
	require.NoError(t, f.db.Store.Recipes().Insert(ctx, &r))

	id := r.ID
	entry := mealplan.Entry{Date: "2024-05-10", MealType: mealplan.Dinner, RecipeID: &id}
	require.NoError(t, f.db.Store.MealPlan().Insert(ctx, &entry))

	s := factory.ShoppingItem(1)
	require.NoError(t, f.db.Store.ShoppingList().Insert(ctx, &s))

	custom := settings.Defaults()
	custom.DisplayName = "Alex"
	require.NoError(t, f.settings.Save(custom))
}

func TestExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newFixture(t)
	source.fill(t)

	var buf bytes.Buffer
	require.NoError(t, source.service.WriteExport(ctx, &buf))

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))
	for _, key := range []string{"pantry", "recipes", "mealPlan", "shoppingList", "settings"} {
		assert.Contains(t, fields, key)
	}

	want, err := source.service.Export(ctx)
	require.NoError(t, err)

	target := newFixture(t)
	result, err := target.service.Import(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pantry)
	assert.Equal(t, 1, result.Recipes)
	assert.Equal(t, 1, result.MealPlan)
	assert.Equal(t, 1, result.ShoppingList)
	assert.True(t, result.Settings)

	got, err := target.service.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entry := got.MealPlan[0]
	require.NotNil(t, entry.RecipeID)
	assert.Equal(t, got.Recipes[0].ID, *entry.RecipeID)
}

func TestImportReplacesExistingData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fill(t)

	changes, cancel := f.bus.Subscribe()
	defer cancel()

	doc := `{
		"pantry": [{"name": " Reis ", "quantity": 1, "unit": "kg", "createdAt": 1700000000000}],
		"recipes": [],
		"mealPlan": [],
		"shoppingList": []
	}`
	result, err := f.service.Import(ctx, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pantry)
	assert.False(t, result.Settings)

	items, err := f.db.Store.Pantry().List(ctx, outbound.PantryQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Reis", items[0].Name)
	assert.Equal(t, int64(1700000000000), items[0].CreatedAt)

	recipes, err := f.db.Store.Recipes().List(ctx, outbound.RecipeQuery{})
	require.NoError(t, err)
	assert.Empty(t, recipes)

	// settings were not part of the import and stay as they were
	current, err := f.settings.Load()
	require.NoError(t, err)
	assert.Equal(t, "Alex", current.DisplayName)

	var resets []shared.Collection
	for len(changes) > 0 {
		c := <-changes
		assert.Equal(t, shared.OpReset, c.Op)
		resets = append(resets, c.Collection)
	}
	assert.ElementsMatch(t, shared.Collections(), resets)
}

func TestImportMergesOldSettingsOverDefaults(t *testing.T) {
	f := newFixture(t)

	doc := `{"pantry": [], "recipes": [], "mealPlan": [], "shoppingList": [],
		"settings": {"version": 1, "displayName": "Sam", "defaultServings": 3}}`
	_, err := f.service.Import(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)

	current, err := f.settings.Load()
	require.NoError(t, err)
	assert.Equal(t, "Sam", current.DisplayName)
	assert.Equal(t, 3, current.DefaultServings)
	assert.Equal(t, settings.CurrentVersion, current.Version)
	assert.Equal(t, settings.Defaults().Shopping, current.Shopping)
	assert.Equal(t, settings.Defaults().WeekStartDay, current.WeekStartDay)
}

func TestImportRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"not json":          `{"pantry": [`,
		"unnamed pantry":    `{"pantry": [{"name": "", "quantity": 1}]}`,
		"negative quantity": `{"shoppingList": [{"name": "Mehl", "quantity": -1}]}`,
		"recipe and note":   `{"mealPlan": [{"date": "2024-05-10", "mealType": "Abendessen", "recipeId": 1, "note": "x"}]}`,
		"bad date":          `{"mealPlan": [{"date": "10.05.2024", "mealType": "Abendessen", "note": "x"}]}`,
		"null item":         `{"pantry": [null]}`,
		"bad settings":      `{"settings": {"defaultServings": 0}}`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			f.fill(t)

			_, err := f.service.Import(ctx, strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.CodeValidationFailed), "got %v", err)

			// nothing was cleared
			items, err := f.db.Store.Pantry().List(ctx, outbound.PantryQuery{})
			require.NoError(t, err)
			assert.Len(t, items, 1)
		})
	}
}
