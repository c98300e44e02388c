// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"testing"

	gormstore "github.com/alchemorsel/kitchen/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/kitchen/internal/infrastructure/persistence/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDatabase provides a migrated in-memory database with cleanup
type TestDatabase struct {
	DB    *gorm.DB
	Store *gormstore.Store
	t     *testing.T
}

// NewTestDatabase opens a private in-memory SQLite database and closes it when the test ends
func NewTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	db, err := sqlite.SetupDatabase(sqlite.Options{
		Path:     sqlite.MemoryPath,
		LogLevel: logger.Silent,
	})
	require.NoError(t, err, "Failed to set up test database")

	t.Cleanup(func() {
		_ = sqlite.Close(db)
	})

	return &TestDatabase{
		DB:    db,
		Store: gormstore.NewStore(db),
		t:     t,
	}
}

// Count returns the number of rows of the given model
func (td *TestDatabase) Count(model interface{}) int64 {
	td.t.Helper()
	var n int64
	require.NoError(td.t, td.DB.Model(model).Count(&n).Error)
	return n
}
