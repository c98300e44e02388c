package gorm

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SchemaVersionKey is the store_meta key holding the migration version
const SchemaVersionKey = "schema_version"

// Store implements outbound.Store on top of a single *gorm.DB
type Store struct {
	db       *gorm.DB
	pantry   *PantryRepository
	recipes  *RecipeRepository
	mealPlan *MealPlanRepository
	shopping *ShoppingListRepository
}

// NewStore creates a store whose repositories share db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		pantry:   &PantryRepository{db: db},
		recipes:  &RecipeRepository{db: db},
		mealPlan: &MealPlanRepository{db: db},
		shopping: &ShoppingListRepository{db: db},
	}
}

func (s *Store) Pantry() outbound.PantryRepository { return s.pantry }
func (s *Store) Recipes() outbound.RecipeRepository { return s.recipes }
func (s *Store) MealPlan() outbound.MealPlanRepository { return s.mealPlan }
func (s *Store) ShoppingList() outbound.ShoppingListRepository { return s.shopping }

// Transaction runs fn with repositories bound to one transaction.
// Inside fn only the tx store may be used: the database has a single connection.
func (s *Store) Transaction(ctx context.Context, fn func(tx outbound.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// SchemaVersion reads the version recorded by the last migration; 0 when none
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	return ReadSchemaVersion(s.db.WithContext(ctx))
}

// Meta reads a store_meta row
func (s *Store) Meta(ctx context.Context, key string) (string, bool, error) {
	return readMeta(s.db.WithContext(ctx), key)
}

// SetMeta upserts a store_meta row
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	return writeMeta(s.db.WithContext(ctx), key, value)
}

// ReadSchemaVersion reads the schema version row
func ReadSchemaVersion(db *gorm.DB) (int, error) {
	value, ok, err := readMeta(db, SchemaVersionKey)
	if err != nil || !ok {
		return 0, err
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("corrupt schema version %q: %w", value, err)
	}
	return v, nil
}

// WriteSchemaVersion upserts the schema version row
func WriteSchemaVersion(db *gorm.DB, version int) error {
	return writeMeta(db, SchemaVersionKey, strconv.Itoa(version))
}

func readMeta(db *gorm.DB, key string) (string, bool, error) {
	var meta StoreMetaModel
	result := db.First(&meta, "meta_key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, result.Error
	}
	return meta.Value, true, nil
}

func writeMeta(db *gorm.DB, key, value string) error {
	meta := StoreMetaModel{Key: key, Value: value}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&meta).Error
}

// notFoundOr maps gorm's not-found error to outbound.ErrNotFound
func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return outbound.ErrNotFound
	}
	return err
}
