package shared

import "time"

// Collection names one of the four stored collections
type Collection string

const (
	CollectionPantry       Collection = "pantry"
	CollectionRecipes      Collection = "recipes"
	CollectionMealPlan     Collection = "mealPlan"
	CollectionShoppingList Collection = "shoppingList"
)

// Collections lists every stored collection
func Collections() []Collection {
	return []Collection{CollectionPantry, CollectionRecipes, CollectionMealPlan, CollectionShoppingList}
}

// ChangeOp is the kind of write that happened
type ChangeOp string

const (
	OpInsert ChangeOp = "insert"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
	// OpReset means the whole collection was replaced; readers should re-query
	OpReset ChangeOp = "reset"
)

// Change is published after a successful write to a collection
type Change struct {
	Collection Collection `json:"collection"`
	Op         ChangeOp   `json:"op"`
	IDs        []uint64   `json:"ids,omitempty"`
	At         time.Time  `json:"at"`
}

// EventName implements DomainEvent
func (c Change) EventName() string {
	return string(c.Collection) + "." + string(c.Op)
}

// OccurredAt implements DomainEvent
func (c Change) OccurredAt() time.Time {
	return c.At
}

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// NewChange stamps a change with the current time
func NewChange(collection Collection, op ChangeOp, ids ...uint64) Change {
	return Change{Collection: collection, Op: op, IDs: ids, At: time.Now()}
}
