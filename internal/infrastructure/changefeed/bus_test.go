package changefeed

import (
	"sync"
	"testing"

	"github.com/alchemorsel/kitchen/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishReachesInterestedSubscribers(t *testing.T) {
	bus := NewBus(zap.NewNop())

	pantryCh, cancelPantry := bus.Subscribe(shared.CollectionPantry)
	defer cancelPantry()
	allCh, cancelAll := bus.Subscribe()
	defer cancelAll()

	bus.Publish(shared.NewChange(shared.CollectionShoppingList, shared.OpInsert, 1))
	bus.Publish(shared.NewChange(shared.CollectionPantry, shared.OpUpdate, 7))

	got := <-pantryCh
	assert.Equal(t, shared.CollectionPantry, got.Collection)
	assert.Equal(t, []uint64{7}, got.IDs)
	assert.Len(t, pantryCh, 0)

	assert.Equal(t, shared.CollectionShoppingList, (<-allCh).Collection)
	assert.Equal(t, shared.CollectionPantry, (<-allCh).Collection)
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	bus := NewBusWithBuffer(zap.NewNop(), 2)
	_, cancel := bus.Subscribe()
	defer cancel()

	for i := 0; i < 5; i++ {
		bus.Publish(shared.NewChange(shared.CollectionRecipes, shared.OpInsert, uint64(i)))
	}

	assert.Equal(t, int64(3), bus.Dropped())
}

func TestCancelClosesChannelOnce(t *testing.T) {
	bus := NewBus(zap.NewNop())
	ch, cancel := bus.Subscribe()
	require.Equal(t, 1, bus.Subscribers())

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, bus.Subscribers())

	bus.Publish(shared.NewChange(shared.CollectionPantry, shared.OpDelete, 1))
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	bus := NewBus(zap.NewNop())
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch, cancel := bus.Subscribe(shared.CollectionMealPlan)
			defer cancel()
			select {
			case <-ch:
			default:
			}
		}()
		go func(i int) {
			defer wg.Done()
			bus.Publish(shared.NewChange(shared.CollectionMealPlan, shared.OpUpdate, uint64(i)))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, bus.Subscribers())
}
