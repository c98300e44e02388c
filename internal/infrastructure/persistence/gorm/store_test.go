package gorm_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/alchemorsel/kitchen/internal/domain/mealplan"
	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
	"github.com/alchemorsel/kitchen/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/alchemorsel/kitchen/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaVersionRecorded(t *testing.T) {
	db := testutils.NewTestDatabase(t)

	v, err := db.Store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sqlite.SchemaVersion, v)

	// migrating twice is harmless
	require.NoError(t, sqlite.Migrate(db.DB))
	v, err = db.Store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sqlite.SchemaVersion, v)
}

func TestStoreMeta(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewTestDatabase(t)

	_, ok, err := db.Store.Meta(ctx, "seeded_at")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Store.SetMeta(ctx, "seeded_at", "2024-05-10T09:00:00Z"))
	require.NoError(t, db.Store.SetMeta(ctx, "seeded_at", "2024-05-11T09:00:00Z"))

	value, ok, err := db.Store.Meta(ctx, "seeded_at")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2024-05-11T09:00:00Z", value)

	v, err := db.Store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, sqlite.SchemaVersion, v, "other keys are untouched")
}

func TestPantryFindByNameIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repo := testutils.NewTestDatabase(t).Store.Pantry()

	expiry := "2024-06-01"
	item := &pantry.Item{Name: "Milch", Quantity: 1, Unit: "l", ExpiryDate: &expiry, CreatedAt: 1}
	require.NoError(t, repo.Insert(ctx, item))
	assert.NotZero(t, item.ID)

	found, err := repo.FindByName(ctx, "  MILCH ")
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
	assert.Equal(t, "Milch", found.Name)
	require.NotNil(t, found.ExpiryDate)
	assert.Equal(t, expiry, *found.ExpiryDate)
	assert.Nil(t, found.MinQuantity)

	_, err = repo.FindByName(ctx, "Sahne")
	assert.True(t, stderrors.Is(err, outbound.ErrNotFound))
	_, err = repo.FindByID(ctx, 999)
	assert.True(t, stderrors.Is(err, outbound.ErrNotFound))
}

func TestPantryListFilters(t *testing.T) {
	ctx := context.Background()
	repo := testutils.NewTestDatabase(t).Store.Pantry()

	soon, later := "2024-05-12", "2024-07-01"
	dairy := "Milchprodukte & Eier"
	require.NoError(t, repo.BulkInsert(ctx, []*pantry.Item{
		{Name: "Joghurt", Quantity: 2, Unit: "Becher", ExpiryDate: &soon, Category: &dairy, CreatedAt: 1},
		{Name: "Käse", Quantity: 200, Unit: "g", ExpiryDate: &later, Category: &dairy, CreatedAt: 2},
		{Name: "Reis", Quantity: 1, Unit: "kg", CreatedAt: 3},
	}))

	expiring, err := repo.List(ctx, outbound.PantryQuery{ExpiringBefore: "2024-05-31"})
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "Joghurt", expiring[0].Name)

	byCategory, err := repo.List(ctx, outbound.PantryQuery{Category: dairy})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	search, err := repo.List(ctx, outbound.PantryQuery{Search: "KÄ"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Käse", search[0].Name)

	newest, err := repo.List(ctx, outbound.PantryQuery{OrderBy: "createdAt"})
	require.NoError(t, err)
	assert.Equal(t, "Reis", newest[0].Name)
}

func TestPantryUpdateMissingRow(t *testing.T) {
	repo := testutils.NewTestDatabase(t).Store.Pantry()

	err := repo.Update(context.Background(), &pantry.Item{ID: 42, Name: "Mehl"})
	assert.True(t, stderrors.Is(err, outbound.ErrNotFound))
}

func TestBulkDeleteCountsExistingRows(t *testing.T) {
	ctx := context.Background()
	repo := testutils.NewTestDatabase(t).Store.Pantry()

	items := []*pantry.Item{{Name: "A", Quantity: 1}, {Name: "B", Quantity: 1}}
	require.NoError(t, repo.BulkInsert(ctx, items))

	n, err := repo.BulkDelete(ctx, []uint64{items[0].ID, items[1].ID, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	deleted, err := repo.Delete(ctx, items[0].ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRecipeRoundTripAndTagFilter(t *testing.T) {
	ctx := context.Background()
	repo := testutils.NewTestDatabase(t).Store.Recipes()

	pasta := testutils.NewRecipeBuilder().
		WithTitle("Spaghetti Carbonara").
		WithIngredient("200", "g", "Spaghetti").
		WithSection("Soße", recipe.Ingredient{Quantity: "2", Name: "Eier"}).
		WithTags(recipe.Tags{Cuisine: []string{"Italienisch"}}).
		AsFavorite().
		Build()
	curry := testutils.NewRecipeBuilder().
		WithTitle("Linsencurry").
		WithTags(recipe.Tags{Cuisine: []string{"Indisch"}}).
		Build()
	require.NoError(t, repo.BulkInsert(ctx, []*recipe.Recipe{&pasta, &curry}))

	stored, err := repo.FindByID(ctx, pasta.ID)
	require.NoError(t, err)
	assert.Equal(t, pasta.Ingredients, stored.Ingredients)
	assert.Equal(t, pasta.Tags, stored.Tags)
	assert.True(t, stored.IsFavorite)

	italian, err := repo.List(ctx, outbound.RecipeQuery{TagGroup: recipe.TagCuisine, Tag: "italienisch"})
	require.NoError(t, err)
	require.Len(t, italian, 1)
	assert.Equal(t, "Spaghetti Carbonara", italian[0].RecipeTitle)

	titles, err := repo.Titles(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Spaghetti Carbonara", "Linsencurry"}, titles)

	many, err := repo.FindByIDs(ctx, []uint64{curry.ID, 999})
	require.NoError(t, err)
	require.Len(t, many, 1)
	assert.Equal(t, curry.ID, many[0].ID)
}

func TestMealPlanListOrdersBySlot(t *testing.T) {
	ctx := context.Background()
	repo := testutils.NewTestDatabase(t).Store.MealPlan()
	factory := testutils.NewFactory(7)

	dinner := factory.MealPlanNote("2024-05-10")
	dinner.MealType = mealplan.Dinner
	breakfast := factory.MealPlanNote("2024-05-10")
	breakfast.MealType = mealplan.Breakfast
	nextDay := factory.MealPlanNote("2024-05-11")
	nextDay.MealType = mealplan.Breakfast
	require.NoError(t, repo.BulkInsert(ctx, []*mealplan.Entry{&nextDay, &dinner, &breakfast}))

	entries, err := repo.List(ctx, outbound.MealPlanQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, breakfast.ID, entries[0].ID)
	assert.Equal(t, dinner.ID, entries[1].ID)
	assert.Equal(t, nextDay.ID, entries[2].ID)

	oneDay, err := repo.List(ctx, outbound.MealPlanQuery{From: "2024-05-11", To: "2024-05-11"})
	require.NoError(t, err)
	assert.Len(t, oneDay, 1)
}

func TestShoppingListOperations(t *testing.T) {
	ctx := context.Background()
	repo := testutils.NewTestDatabase(t).Store.ShoppingList()
	factory := testutils.NewFactory(11)

	_, ok, err := repo.MaxSortOrder(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	a := factory.ShoppingItem(0)
	a.Category = "Sonstiges"
	b := factory.ShoppingItem(1)
	b.Category = "Sonstiges"
	b.IsChecked = true
	c := factory.ShoppingItem(2.5)
	c.Category = "Backwaren"
	require.NoError(t, repo.BulkInsert(ctx, []*shopping.Item{&a, &b, &c}))

	highest, ok, err := repo.MaxSortOrder(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2.5, highest)

	n, err := repo.RenameCategory(ctx, "Sonstiges", "Haushalt")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Backwaren", "Haushalt"}, categories)

	checked := true
	onlyChecked, err := repo.List(ctx, outbound.ShoppingQuery{Checked: &checked})
	require.NoError(t, err)
	require.Len(t, onlyChecked, 1)
	assert.Equal(t, b.ID, onlyChecked[0].ID)

	removed, err := repo.DeleteChecked(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	all, err := repo.List(ctx, outbound.ShoppingQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, c.ID, all[0].ID)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewTestDatabase(t)
	boom := stderrors.New("boom")

	err := db.Store.Transaction(ctx, func(tx outbound.Store) error {
		if err := tx.Pantry().Insert(ctx, &pantry.Item{Name: "Mehl", Quantity: 1}); err != nil {
			return err
		}
		if err := tx.ShoppingList().Clear(ctx); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	items, err := db.Store.Pantry().List(ctx, outbound.PantryQuery{})
	require.NoError(t, err)
	assert.Empty(t, items)
}
