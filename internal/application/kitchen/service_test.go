package kitchen

import (
	"context"
	"testing"
	"time"

	"github.com/alchemorsel/kitchen/internal/domain/mealplan"
	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/quantity"
	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/domain/settings"
	"github.com/alchemorsel/kitchen/internal/domain/shared"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
	"github.com/alchemorsel/kitchen/internal/infrastructure/changefeed"
	"github.com/alchemorsel/kitchen/internal/ports/inbound"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/alchemorsel/kitchen/pkg/errors"
	"github.com/alchemorsel/kitchen/test/testutils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// KitchenServiceTestSuite runs the service against a fresh in-memory database per test
type KitchenServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	db        *testutils.TestDatabase
	bus       *changefeed.Bus
	settings  *testutils.MemorySettingsStore
	generator *testutils.MockRecipeGenerator
	service   *Service
	pantry    *testutils.PantryAssertions
}

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func (suite *KitchenServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.db = testutils.NewTestDatabase(suite.T())
	suite.bus = changefeed.NewBus(zap.NewNop())
	suite.settings = testutils.NewMemorySettingsStore()
	suite.generator = &testutils.MockRecipeGenerator{}
	suite.pantry = testutils.NewPantryAssertions(suite.T())

	suite.service = NewService(
		suite.db.Store,
		suite.bus,
		suite.settings,
		suite.generator,
		zap.NewNop(),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func TestKitchenServiceSuite(t *testing.T) {
	suite.Run(t, new(KitchenServiceTestSuite))
}

func (suite *KitchenServiceTestSuite) addPantry(name string, qty float64, unit string) *pantry.Item {
	item, err := suite.service.CreatePantryItem(suite.ctx, pantry.Item{Name: name, Quantity: qty, Unit: unit})
	suite.Require().NoError(err)
	return item
}

func (suite *KitchenServiceTestSuite) saveRecipe(title, servings string, ingredients ...recipe.Ingredient) *recipe.Recipe {
	b := testutils.NewRecipeBuilder().WithTitle(title).WithServings(servings)
	for _, ing := range ingredients {
		b.WithIngredient(ing.Quantity, ing.Unit, ing.Name)
	}
	r, err := suite.service.SaveRecipe(suite.ctx, b.Build())
	suite.Require().NoError(err)
	return r
}

func (suite *KitchenServiceTestSuite) plan(date string, r *recipe.Recipe, servings *int) *mealplan.Entry {
	id := r.ID
	e, err := suite.service.AddMealPlanEntry(suite.ctx, mealplan.Entry{
		Date:     date,
		MealType: mealplan.Dinner,
		RecipeID: &id,
		Servings: servings,
	})
	suite.Require().NoError(err)
	return e
}

func (suite *KitchenServiceTestSuite) shoppingList() []*shopping.Item {
	items, err := suite.service.ListShoppingList(suite.ctx, inbound.ShoppingQuery{})
	suite.Require().NoError(err)
	return items
}

func (suite *KitchenServiceTestSuite) pantryItems() []*pantry.Item {
	items, err := suite.db.Store.Pantry().List(suite.ctx, outbound.PantryQuery{})
	suite.Require().NoError(err)
	return items
}

func findShopping(items []*shopping.Item, name string) *shopping.Item {
	for _, it := range items {
		if quantity.NameKey(it.Name) == quantity.NameKey(name) {
			return it
		}
	}
	return nil
}

func ing(qty, unit, name string) recipe.Ingredient {
	return recipe.Ingredient{Quantity: qty, Unit: unit, Name: name}
}

func intPtr(v int) *int { return &v }

func (suite *KitchenServiceTestSuite) TestAddMissingIngredientsSkipsStockedItems() {
	suite.addPantry("Milch", 1, "l")
	r := suite.saveRecipe("Pfannkuchen", "2 Personen", ing("2", "l", "Milch"), ing("3", "", "Eier"))

	added, err := suite.service.AddMissingIngredientsToShoppingList(suite.ctx, r.ID)
	suite.Require().NoError(err)
	suite.Equal(1, added)

	items := suite.shoppingList()
	suite.Require().Len(items, 1)
	suite.Equal("Eier", items[0].Name)
	suite.Equal(3.0, items[0].Quantity)
	suite.Equal(quantity.DefaultUnit, items[0].Unit)
	suite.Equal(quantity.CategoryDairy, items[0].Category)
	suite.Require().NotNil(items[0].RecipeID)
	suite.Equal(r.ID, *items[0].RecipeID)

	// a second call grows the existing row instead of adding one
	added, err = suite.service.AddMissingIngredientsToShoppingList(suite.ctx, r.ID)
	suite.Require().NoError(err)
	suite.Equal(0, added)

	items = suite.shoppingList()
	suite.Require().Len(items, 1)
	suite.Equal(6.0, items[0].Quantity)
}

func (suite *KitchenServiceTestSuite) TestAddMissingIngredientsUnknownRecipe() {
	added, err := suite.service.AddMissingIngredientsToShoppingList(suite.ctx, 999)
	suite.Require().NoError(err)
	suite.Zero(added)
	suite.Empty(suite.shoppingList())
}

func (suite *KitchenServiceTestSuite) TestMarkMealAsCookedDecrementsOnce() {
	suite.addPantry("Milch", 3, "l")
	suite.addPantry("Eier", 3, quantity.DefaultUnit)
	r := suite.saveRecipe("Pfannkuchen", "2 Personen",
		ing("2", "l", "Milch"),
		ing("3", "", "Eier"),
		ing("1", "Prise", "Salz"),
	)
	entry := suite.plan("2024-05-10", r, nil)

	result, err := suite.service.MarkMealAsCooked(suite.ctx, entry.ID)
	suite.Require().NoError(err)
	suite.True(result.Success)
	suite.Require().Len(result.Changes.Updated, 1)
	suite.Equal("Milch", result.Changes.Updated[0].Name)
	suite.Equal(1.0, result.Changes.Updated[0].Quantity)
	suite.Require().Len(result.Changes.Deleted, 1)
	suite.Equal("Eier", result.Changes.Deleted[0].Name)

	items := suite.pantryItems()
	suite.Equal(1.0, suite.pantry.HasItem(items, "Milch").Quantity)
	suite.pantry.HasNoItem(items, "Eier")

	again, err := suite.service.MarkMealAsCooked(suite.ctx, entry.ID)
	suite.Require().NoError(err)
	suite.False(again.Success)
	suite.Empty(again.Changes.Updated)
	suite.Empty(again.Changes.Deleted)
	suite.Equal(1.0, suite.pantry.HasItem(suite.pantryItems(), "Milch").Quantity)

	stored, err := suite.db.Store.MealPlan().FindByID(suite.ctx, entry.ID)
	suite.Require().NoError(err)
	suite.True(stored.IsCooked)
	suite.Require().NotNil(stored.CookedDate)
	suite.Equal("2024-05-10", *stored.CookedDate)
}

func (suite *KitchenServiceTestSuite) TestMarkMealAsCookedScalesToPlannedServings() {
	suite.addPantry("Nudeln", 500, "g")
	r := suite.saveRecipe("Nudeln mit Soße", "2 Personen", ing("100", "g", "Nudeln"))
	entry := suite.plan("2024-05-10", r, intPtr(4))

	result, err := suite.service.MarkMealAsCooked(suite.ctx, entry.ID)
	suite.Require().NoError(err)
	suite.True(result.Success)
	suite.Equal(300.0, suite.pantry.HasItem(suite.pantryItems(), "Nudeln").Quantity)
}

func (suite *KitchenServiceTestSuite) TestMarkMealAsCookedWithoutRecipe() {
	note := "Essen gehen"
	e, err := suite.service.AddMealPlanEntry(suite.ctx, mealplan.Entry{Date: "2024-05-10", MealType: mealplan.Lunch, Note: &note})
	suite.Require().NoError(err)

	result, err := suite.service.MarkMealAsCooked(suite.ctx, e.ID)
	suite.Require().NoError(err)
	suite.False(result.Success)

	result, err = suite.service.MarkMealAsCooked(suite.ctx, 12345)
	suite.Require().NoError(err)
	suite.False(result.Success)

	r := suite.saveRecipe("Gelöscht", "2", ing("1", "", "Apfel"))
	dangling := suite.plan("2024-05-11", r, nil)
	_, err = suite.service.DeleteRecipe(suite.ctx, r.ID)
	suite.Require().NoError(err)

	result, err = suite.service.MarkMealAsCooked(suite.ctx, dangling.ID)
	suite.Require().NoError(err)
	suite.False(result.Success)

	views, err := suite.service.ListMealPlan(suite.ctx, inbound.MealPlanQuery{From: "2024-05-11", To: "2024-05-11"})
	suite.Require().NoError(err)
	suite.Require().Len(views, 1)
	suite.Nil(views[0].Recipe)
	suite.False(views[0].Entry.IsCooked)
}

func (suite *KitchenServiceTestSuite) TestQuickAddMergesByName() {
	first, err := suite.service.QuickAddShoppingItem(suite.ctx, "1 l Milch")
	suite.Require().NoError(err)
	second, err := suite.service.QuickAddShoppingItem(suite.ctx, "1 l MILCH")
	suite.Require().NoError(err)

	suite.Equal(first.ID, second.ID)
	items := suite.shoppingList()
	suite.Require().Len(items, 1)
	suite.Equal("Milch", items[0].Name)
	suite.Equal(2.0, items[0].Quantity)
	suite.Equal("l", items[0].Unit)

	_, err = suite.service.QuickAddShoppingItem(suite.ctx, "   ")
	suite.True(errors.Is(err, errors.CodeValidationFailed))
}

func (suite *KitchenServiceTestSuite) TestBatchAddCountsNewAndMergedRows() {
	_, err := suite.service.QuickAddShoppingItem(suite.ctx, "500 g Mehl")
	suite.Require().NoError(err)

	result, err := suite.service.BatchAddShoppingListItems(suite.ctx, []shopping.Candidate{
		{Name: "Mehl", Quantity: 500, Unit: "g"},
		{Name: "Zucker", Quantity: 1, Unit: "kg"},
		{Name: " zucker ", Quantity: 2, Unit: "kg"},
	})
	suite.Require().NoError(err)
	suite.Equal(1, result.Added)
	suite.Equal(1, result.Updated)

	items := suite.shoppingList()
	suite.Require().Len(items, 2)
	mehl := findShopping(items, "Mehl")
	zucker := findShopping(items, "Zucker")
	suite.Require().NotNil(mehl)
	suite.Require().NotNil(zucker)
	suite.Equal(1000.0, mehl.Quantity)
	suite.Equal(3.0, zucker.Quantity)
	suite.Greater(zucker.SortOrder, mehl.SortOrder)

	_, err = suite.service.BatchAddShoppingListItems(suite.ctx, []shopping.Candidate{{Name: "", Quantity: 1}})
	suite.True(errors.Is(err, errors.CodeValidationFailed))
}

func (suite *KitchenServiceTestSuite) TestBulkAddFromText() {
	result, err := suite.service.BulkAddFromText(suite.ctx, "500g Mehl\n\n2 l Milch\nmehl 250g\nBrot")
	suite.Require().NoError(err)
	suite.Equal(3, result.Added)
	suite.Zero(result.Updated)

	items := suite.shoppingList()
	suite.Equal(750.0, findShopping(items, "Mehl").Quantity)
	suite.Equal(quantity.DefaultUnit, findShopping(items, "Brot").Unit)
}

func (suite *KitchenServiceTestSuite) TestMoveCheckedToPantry() {
	suite.addPantry("Milch", 1, "l")
	_, err := suite.service.BulkAddFromText(suite.ctx, "2 l Milch\n1 Brot\n3 Äpfel")
	suite.Require().NoError(err)

	items := suite.shoppingList()
	for _, name := range []string{"Milch", "Brot"} {
		_, err := suite.service.SetShoppingItemChecked(suite.ctx, findShopping(items, name).ID, true)
		suite.Require().NoError(err)
	}

	moved, err := suite.service.MoveCheckedToPantry(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(2, moved)

	stock := suite.pantryItems()
	suite.Equal(3.0, suite.pantry.HasItem(stock, "Milch").Quantity)
	brot := suite.pantry.HasItem(stock, "Brot")
	suite.Require().NotNil(brot.Category)
	suite.Equal(quantity.CategoryBakery, *brot.Category)

	remaining := suite.shoppingList()
	suite.Require().Len(remaining, 1)
	suite.Equal("Äpfel", remaining[0].Name)
}

func (suite *KitchenServiceTestSuite) TestRenameShoppingListCategory() {
	_, err := suite.service.BulkAddFromText(suite.ctx, "Alufolie\nBatterien")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.RenameShoppingListCategory(suite.ctx, quantity.CategoryOther, "Haushalt"))
	for _, item := range suite.shoppingList() {
		suite.Equal("Haushalt", item.Category)
	}

	categories, err := suite.service.ShoppingCategories(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(quantity.Categories(), categories[:len(categories)-1])
	suite.Equal("Haushalt", categories[len(categories)-1])

	err = suite.service.RenameShoppingListCategory(suite.ctx, "Haushalt", "  ")
	suite.True(errors.Is(err, errors.CodeValidationFailed))
}

func (suite *KitchenServiceTestSuite) TestReorderPlacesItemAtMidpoint() {
	_, err := suite.service.BulkAddFromText(suite.ctx, "Alufolie\nBatterien\nKerzen")
	suite.Require().NoError(err)

	items := suite.shoppingList()
	alufolie := findShopping(items, "Alufolie")
	batterien := findShopping(items, "Batterien")
	kerzen := findShopping(items, "Kerzen")

	moved, err := suite.service.ReorderShoppingItem(suite.ctx, kerzen.ID, &alufolie.ID, &batterien.ID)
	suite.Require().NoError(err)
	suite.Equal((alufolie.SortOrder+batterien.SortOrder)/2, moved.SortOrder)

	var names []string
	for _, item := range suite.shoppingList() {
		names = append(names, item.Name)
	}
	suite.Equal([]string{"Alufolie", "Kerzen", "Batterien"}, names)

	missing := uint64(999)
	_, err = suite.service.ReorderShoppingItem(suite.ctx, kerzen.ID, &missing, nil)
	suite.True(errors.Is(err, errors.CodeNotFound))
}

func (suite *KitchenServiceTestSuite) TestClearShoppingList() {
	_, err := suite.service.BulkAddFromText(suite.ctx, "Mehl\nZucker\nSalz")
	suite.Require().NoError(err)
	_, err = suite.service.SetShoppingItemChecked(suite.ctx, findShopping(suite.shoppingList(), "Salz").ID, true)
	suite.Require().NoError(err)

	n, err := suite.service.ClearShoppingList(suite.ctx, true)
	suite.Require().NoError(err)
	suite.Equal(int64(1), n)
	suite.Len(suite.shoppingList(), 2)

	n, err = suite.service.ClearShoppingList(suite.ctx, false)
	suite.Require().NoError(err)
	suite.Equal(int64(2), n)
	suite.Empty(suite.shoppingList())
}

func (suite *KitchenServiceTestSuite) TestAddMissingIngredientsForMealsCombinesQuantities() {
	_, err := suite.service.QuickAddShoppingItem(suite.ctx, "1 Tomaten")
	suite.Require().NoError(err)

	pasta := suite.saveRecipe("Pasta", "2 Personen", ing("100", "g", "Nudeln"))
	salad := suite.saveRecipe("Nudelsalat", "2 Personen", ing("100", "g", "Nudeln"), ing("2", "", "Tomaten"))
	a := suite.plan("2024-05-10", pasta, intPtr(4))
	b := suite.plan("2024-05-11", salad, nil)

	result, err := suite.service.AddMissingIngredientsForMeals(suite.ctx, []uint64{a.ID, b.ID})
	suite.Require().NoError(err)
	suite.Equal(1, result.Added)
	suite.Equal(1, result.Existing)

	items := suite.shoppingList()
	suite.Require().Len(items, 2)
	suite.Equal(300.0, findShopping(items, "Nudeln").Quantity)
	suite.Equal(3.0, findShopping(items, "Tomaten").Quantity)

	empty, err := suite.service.AddMissingIngredientsForMeals(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.Equal(&inbound.MealsResult{}, empty)
}

func (suite *KitchenServiceTestSuite) TestGenerateListFromMealPlan() {
	pasta := suite.saveRecipe("Pasta", "2", ing("200", "g", "Nudeln"))
	risotto := suite.saveRecipe("Risotto", "2", ing("100", "g", "Reis"))
	suite.plan("2024-05-10", pasta, nil)
	suite.plan("2024-05-20", risotto, nil)
	cooked := suite.plan("2024-05-11", risotto, nil)
	_, err := suite.service.MarkMealAsCooked(suite.ctx, cooked.ID)
	suite.Require().NoError(err)

	result, err := suite.service.GenerateListFromMealPlan(suite.ctx, "2024-05-09", "2024-05-12")
	suite.Require().NoError(err)
	suite.Equal(1, result.Added)

	items := suite.shoppingList()
	suite.Require().Len(items, 1)
	suite.Equal("Nudeln", items[0].Name)
	suite.Equal(200.0, items[0].Quantity)

	_, err = suite.service.GenerateListFromMealPlan(suite.ctx, "10.05.2024", "")
	suite.True(errors.Is(err, errors.CodeValidationFailed))
}

func (suite *KitchenServiceTestSuite) TestAddLowStockToShoppingList() {
	minimum := 500.0
	_, err := suite.service.CreatePantryItem(suite.ctx, pantry.Item{Name: "Reis", Quantity: 200, Unit: "g", MinQuantity: &minimum})
	suite.Require().NoError(err)
	suite.addPantry("Nudeln", 100, "g")

	result, err := suite.service.AddLowStockToShoppingList(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(1, result.Added)

	items := suite.shoppingList()
	suite.Require().Len(items, 1)
	suite.Equal("Reis", items[0].Name)
	suite.Equal(300.0, items[0].Quantity)
	suite.Equal("g", items[0].Unit)

	views, err := suite.service.ListPantry(suite.ctx, inbound.PantryQuery{OrderBy: "name"})
	suite.Require().NoError(err)
	suite.Require().Len(views, 2)
	suite.False(views[0].LowStock)
	suite.True(views[1].LowStock)
}

func (suite *KitchenServiceTestSuite) TestAddOrUpdatePantryItem() {
	expiry := "2024-05-12"
	first, err := suite.service.AddOrUpdatePantryItem(suite.ctx, pantry.Item{Name: "Joghurt", Quantity: 1, Unit: "Becher", ExpiryDate: &expiry})
	suite.Require().NoError(err)
	suite.Equal(inbound.StatusAdded, first.Status)

	second, err := suite.service.AddOrUpdatePantryItem(suite.ctx, pantry.Item{Name: "joghurt", Quantity: 2})
	suite.Require().NoError(err)
	suite.Equal(inbound.StatusUpdated, second.Status)
	suite.Equal(first.Item.ID, second.Item.ID)
	suite.Equal(3.0, second.Item.Quantity)
	suite.Equal("Becher", second.Item.Unit)
	suite.Equal(&expiry, second.Item.ExpiryDate)

	views, err := suite.service.ListPantry(suite.ctx, inbound.PantryQuery{})
	suite.Require().NoError(err)
	suite.Require().Len(views, 1)
	suite.Equal(pantry.ExpiryExpiring, views[0].ExpiryStatus)

	removed, err := suite.service.RemoveItemFromPantry(suite.ctx, "JOGHURT")
	suite.Require().NoError(err)
	suite.True(removed)
	removed, err = suite.service.RemoveItemFromPantry(suite.ctx, "Joghurt")
	suite.Require().NoError(err)
	suite.False(removed)
}

func (suite *KitchenServiceTestSuite) TestAdjustPantryQuantity() {
	item := suite.addPantry("Butter", 250, "g")

	updated, err := suite.service.AdjustPantryQuantity(suite.ctx, item.ID, -50)
	suite.Require().NoError(err)
	suite.Equal(200.0, updated.Quantity)

	gone, err := suite.service.AdjustPantryQuantity(suite.ctx, item.ID, -200)
	suite.Require().NoError(err)
	suite.Nil(gone)

	_, err = suite.service.GetPantryItem(suite.ctx, item.ID)
	suite.True(errors.Is(err, errors.CodeNotFound))
}

func (suite *KitchenServiceTestSuite) TestScaleRecipe() {
	r := suite.saveRecipe("Pfannkuchen", "2 Personen", ing("250", "ml", "Milch"), ing("1/2", "TL", "Salz"))

	scaled, err := suite.service.ScaleRecipe(suite.ctx, r.ID, 4)
	suite.Require().NoError(err)
	suite.Equal("500", scaled.Ingredients[0].Items[0].Quantity)

	stored, err := suite.service.GetRecipe(suite.ctx, r.ID)
	suite.Require().NoError(err)
	suite.Equal("250", stored.Ingredients[0].Items[0].Quantity)

	_, err = suite.service.ScaleRecipe(suite.ctx, r.ID, 0)
	suite.True(errors.Is(err, errors.CodeValidationFailed))
}

func (suite *KitchenServiceTestSuite) TestRecipesWithPantryStatus() {
	suite.addPantry("Nudeln", 500, "g")
	suite.saveRecipe("Pasta", "2", ing("200", "g", "Nudeln"))
	suite.saveRecipe("Omelett", "1", ing("3", "", "Eier"))

	statuses, err := suite.service.RecipesWithPantryStatus(suite.ctx, inbound.RecipeQuery{OrderBy: "title"})
	suite.Require().NoError(err)
	suite.Require().Len(statuses, 2)
	suite.Equal(pantry.StatusMissing, statuses[0].Pantry.Status)
	suite.Equal([]string{"Eier"}, statuses[0].Pantry.MissingNames)
	suite.Equal(pantry.StatusOK, statuses[1].Pantry.Status)
}

func (suite *KitchenServiceTestSuite) TestToggleFavorite() {
	r := suite.saveRecipe("Pasta", "2", ing("200", "g", "Nudeln"))

	toggled, err := suite.service.ToggleFavorite(suite.ctx, r.ID)
	suite.Require().NoError(err)
	suite.True(toggled.IsFavorite)
	suite.Require().NotNil(toggled.UpdatedAt)
	suite.Equal(fixedNow.UnixMilli(), *toggled.UpdatedAt)

	favorites, err := suite.service.ListRecipes(suite.ctx, inbound.RecipeQuery{FavoritesOnly: true})
	suite.Require().NoError(err)
	suite.Len(favorites, 1)
}

func (suite *KitchenServiceTestSuite) TestAddMealPlanEntryRejectsRecipeAndNote() {
	note := "Reste"
	id := uint64(1)
	_, err := suite.service.AddMealPlanEntry(suite.ctx, mealplan.Entry{
		Date:     "2024-05-10",
		MealType: mealplan.Lunch,
		RecipeID: &id,
		Note:     &note,
	})
	suite.True(errors.Is(err, errors.CodeValidationFailed))
}

func (suite *KitchenServiceTestSuite) TestWritesPublishChanges() {
	changes, cancel := suite.bus.Subscribe(shared.CollectionPantry)
	defer cancel()

	item := suite.addPantry("Mehl", 1, "kg")

	select {
	case change := <-changes:
		suite.Equal(shared.OpInsert, change.Op)
		suite.Equal([]uint64{item.ID}, change.IDs)
	case <-time.After(time.Second):
		suite.Fail("no change published")
	}

	// a failed write publishes nothing
	_, err := suite.service.CreatePantryItem(suite.ctx, pantry.Item{Name: " "})
	suite.Error(err)
	select {
	case change := <-changes:
		suite.Failf("unexpected change", "%s", change.EventName())
	default:
	}
}

func (suite *KitchenServiceTestSuite) TestGeneratorErrorKeepsKind() {
	suite.generator.On("GenerateIdeas", mock.Anything, mock.Anything).
		Return(nil, errors.NewExternalKindError(errors.KindAPIKeyMissing, "no key"))

	_, err := suite.service.GenerateRecipeIdeas(suite.ctx, "etwas Schnelles")
	suite.Require().Error(err)
	suite.True(errors.Is(err, errors.CodeExternalServiceError))
	suite.Equal(errors.KindAPIKeyMissing, errors.ExternalKindOf(err))
	suite.generator.AssertExpectations(suite.T())
}

func (suite *KitchenServiceTestSuite) TestGenerateShoppingListWithAI() {
	suite.addPantry("Reis", 1, "kg")
	suite.generator.On("GenerateShoppingList", mock.Anything, mock.MatchedBy(func(req outbound.GenerationRequest) bool {
		return req.Prompt == "Grillabend" && len(req.Pantry) == 1
	})).Return([]shopping.Candidate{
		{Name: "Würstchen", Quantity: 6, Unit: quantity.DefaultUnit},
		{Name: "Senf", Quantity: 1, Unit: "Glas"},
		{Name: "würstchen", Quantity: 2, Unit: quantity.DefaultUnit},
	}, nil)

	result, err := suite.service.GenerateShoppingListWithAI(suite.ctx, "  Grillabend ")
	suite.Require().NoError(err)
	suite.Equal(2, result.Added)
	suite.Equal(8.0, findShopping(suite.shoppingList(), "Würstchen").Quantity)

	_, err = suite.service.GenerateShoppingListWithAI(suite.ctx, "")
	suite.True(errors.Is(err, errors.CodeValidationFailed))
}

func (suite *KitchenServiceTestSuite) TestSettings() {
	current, err := suite.service.GetSettings(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(settings.Defaults(), current)

	current.DefaultServings = 0
	err = suite.service.SaveSettings(suite.ctx, current)
	suite.True(errors.Is(err, errors.CodeValidationFailed))
	suite.Zero(suite.settings.Saves)

	current.DefaultServings = 4
	suite.Require().NoError(suite.service.SaveSettings(suite.ctx, current))

	loaded, err := suite.service.GetSettings(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(4, loaded.DefaultServings)
}
