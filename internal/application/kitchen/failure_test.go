package kitchen

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/quantity"
	"github.com/alchemorsel/kitchen/internal/domain/shared"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"go.uber.org/zap"
)

var errDiskFull = stderrors.New("disk I/O error")

// faults selects which repository calls fail
type faults struct {
	shoppingLookup string
	pantryLookup   string
	shoppingDelete uint64
}

// faultyStore wraps the real store and fails the calls selected by faults,
// inside transactions too
type faultyStore struct {
	outbound.Store
	faults faults
}

func (f *faultyStore) Pantry() outbound.PantryRepository {
	return &faultyPantry{PantryRepository: f.Store.Pantry(), faults: f.faults}
}

func (f *faultyStore) ShoppingList() outbound.ShoppingListRepository {
	return &faultyShopping{ShoppingListRepository: f.Store.ShoppingList(), faults: f.faults}
}

func (f *faultyStore) Transaction(ctx context.Context, fn func(tx outbound.Store) error) error {
	return f.Store.Transaction(ctx, func(tx outbound.Store) error {
		return fn(&faultyStore{Store: tx, faults: f.faults})
	})
}

type faultyPantry struct {
	outbound.PantryRepository
	faults faults
}

func (p *faultyPantry) FindByName(ctx context.Context, name string) (*pantry.Item, error) {
	if p.faults.pantryLookup != "" && quantity.NameKey(name) == quantity.NameKey(p.faults.pantryLookup) {
		return nil, errDiskFull
	}
	return p.PantryRepository.FindByName(ctx, name)
}

type faultyShopping struct {
	outbound.ShoppingListRepository
	faults faults
}

func (r *faultyShopping) FindByName(ctx context.Context, name string) (*shopping.Item, error) {
	if r.faults.shoppingLookup != "" && quantity.NameKey(name) == quantity.NameKey(r.faults.shoppingLookup) {
		return nil, errDiskFull
	}
	return r.ShoppingListRepository.FindByName(ctx, name)
}

func (r *faultyShopping) Delete(ctx context.Context, id uint64) (bool, error) {
	if r.faults.shoppingDelete != 0 && id == r.faults.shoppingDelete {
		return false, errDiskFull
	}
	return r.ShoppingListRepository.Delete(ctx, id)
}

// faulty returns a service over the same database whose store fails as selected
func (suite *KitchenServiceTestSuite) faulty(f faults) *Service {
	return NewService(
		&faultyStore{Store: suite.db.Store, faults: f},
		suite.bus,
		suite.settings,
		suite.generator,
		zap.NewNop(),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func (suite *KitchenServiceTestSuite) quickAddChecked(text string) *shopping.Item {
	item, err := suite.service.QuickAddShoppingItem(suite.ctx, text)
	suite.Require().NoError(err)
	item, err = suite.service.SetShoppingItemChecked(suite.ctx, item.ID, true)
	suite.Require().NoError(err)
	return item
}

func (suite *KitchenServiceTestSuite) shoppingChanges(changes <-chan shared.Change) int {
	n := 0
	for len(changes) > 0 {
		if (<-changes).Collection == shared.CollectionShoppingList {
			n++
		}
	}
	return n
}

func (suite *KitchenServiceTestSuite) TestAddMissingIngredientsFailureWritesNothing() {
	_, err := suite.service.QuickAddShoppingItem(suite.ctx, "2 Eier")
	suite.Require().NoError(err)
	r := suite.saveRecipe("Pfannkuchen", "2 Personen",
		ing("3", "Stk.", "Eier"),
		ing("500", "ml", "Milch"),
		ing("200", "g", "Mehl"),
	)

	changes, cancel := suite.bus.Subscribe(shared.CollectionShoppingList)
	defer cancel()

	_, err = suite.faulty(faults{shoppingLookup: "Milch"}).AddMissingIngredientsToShoppingList(suite.ctx, r.ID)
	suite.Require().Error(err)

	// Eier was already grown inside the transaction; the rollback undoes it
	items := suite.shoppingList()
	suite.Require().Len(items, 1)
	suite.Equal(2.0, items[0].Quantity)
	suite.Zero(suite.shoppingChanges(changes))

	added, err := suite.service.AddMissingIngredientsToShoppingList(suite.ctx, r.ID)
	suite.Require().NoError(err)
	suite.Equal(2, added)
	suite.Equal(2, suite.shoppingChanges(changes), "one insert and one update event")
}

func (suite *KitchenServiceTestSuite) TestAddMissingIngredientsForMealsFailureWritesNothing() {
	_, err := suite.service.QuickAddShoppingItem(suite.ctx, "1 Eier")
	suite.Require().NoError(err)
	r := suite.saveRecipe("Rührei", "2 Personen", ing("4", "Stk.", "Eier"), ing("1", "EL", "Butter"))
	e := suite.plan("2024-05-11", r, nil)

	_, err = suite.faulty(faults{shoppingLookup: "Butter"}).AddMissingIngredientsForMeals(suite.ctx, []uint64{e.ID})
	suite.Require().Error(err)

	items := suite.shoppingList()
	suite.Require().Len(items, 1)
	suite.Equal(1.0, items[0].Quantity)

	result, err := suite.service.AddMissingIngredientsForMeals(suite.ctx, []uint64{e.ID})
	suite.Require().NoError(err)
	suite.Equal(1, result.Added)
	suite.Equal(1, result.Existing)
	suite.Equal(5.0, findShopping(suite.shoppingList(), "Eier").Quantity)
}

func (suite *KitchenServiceTestSuite) TestMoveCheckedToPantryContinuesAfterFailedItem() {
	suite.quickAddChecked("1 l Milch")
	rice := suite.quickAddChecked("1 kg Reis")
	suite.quickAddChecked("500 g Zucker")

	moved, err := suite.faulty(faults{pantryLookup: "Reis"}).MoveCheckedToPantry(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(2, moved)

	stock := suite.pantryItems()
	suite.pantry.HasItem(stock, "Milch")
	suite.pantry.HasItem(stock, "Zucker")
	suite.pantry.HasNoItem(stock, "Reis")

	items := suite.shoppingList()
	suite.Require().Len(items, 1)
	suite.Equal(rice.ID, items[0].ID)
	suite.True(items[0].IsChecked)
}

func (suite *KitchenServiceTestSuite) TestMoveCheckedToPantryDoesNotCountItemThatStays() {
	suite.addPantry("Zucker", 1000, "g")
	sugar := suite.quickAddChecked("500 g Zucker")
	suite.quickAddChecked("1 l Milch")

	moved, err := suite.faulty(faults{shoppingDelete: sugar.ID}).MoveCheckedToPantry(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(1, moved)

	// the pantry merge rolled back with the failed removal
	stock := suite.pantryItems()
	suite.Equal(1000.0, suite.pantry.HasItem(stock, "Zucker").Quantity)

	moved, err = suite.service.MoveCheckedToPantry(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(1, moved)

	stock = suite.pantryItems()
	suite.Equal(1500.0, suite.pantry.HasItem(stock, "Zucker").Quantity, "quantity is added once")
	suite.Empty(suite.shoppingList())
}
