// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gormModels "github.com/alchemorsel/kitchen/internal/infrastructure/persistence/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SchemaVersion is the version written after a successful migration
const SchemaVersion = 1

// MemoryPath selects a private in-memory database
const MemoryPath = ":memory:"

// Options configures the database
type Options struct {
	Path        string
	LogLevel    logger.LogLevel
	BusyTimeout time.Duration
}

// SetupDatabase creates and configures the SQLite database
func SetupDatabase(opts Options) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	if opts.Path == "" {
		opts.Path = MemoryPath
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Silent
	}

	if opts.Path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn(opts)), &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	// One writer; also keeps a :memory: database alive on a single connection
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate runs auto-migration and records the schema version
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	current, err := gormModels.ReadSchemaVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, SchemaVersion)
	}
	if current < SchemaVersion {
		if err := gormModels.WriteSchemaVersion(db, SchemaVersion); err != nil {
			return fmt.Errorf("failed to write schema version: %w", err)
		}
	}

	return nil
}

// Close releases the underlying connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dsn(opts Options) string {
	if opts.Path == MemoryPath {
		return MemoryPath
	}
	params := []string{"_foreign_keys=on", "_journal_mode=WAL"}
	if opts.BusyTimeout > 0 {
		params = append(params, fmt.Sprintf("_busy_timeout=%d", opts.BusyTimeout.Milliseconds()))
	}
	return "file:" + opts.Path + "?" + strings.Join(params, "&")
}
