// Package container wires the kitchen service together with Uber FX
package container

import (
	"context"
	"fmt"

	"github.com/alchemorsel/kitchen/internal/application/kitchen"
	"github.com/alchemorsel/kitchen/internal/application/seed"
	"github.com/alchemorsel/kitchen/internal/application/transfer"
	"github.com/alchemorsel/kitchen/internal/domain/settings"
	"github.com/alchemorsel/kitchen/internal/infrastructure/ai"
	"github.com/alchemorsel/kitchen/internal/infrastructure/changefeed"
	"github.com/alchemorsel/kitchen/internal/infrastructure/config"
	"github.com/alchemorsel/kitchen/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/kitchen/internal/infrastructure/http/server"
	"github.com/alchemorsel/kitchen/internal/infrastructure/monitoring"
	gormstore "github.com/alchemorsel/kitchen/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/kitchen/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/kitchen/internal/infrastructure/settingsstore"
	"github.com/alchemorsel/kitchen/internal/ports/inbound"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/alchemorsel/kitchen/pkg/healthcheck"
	"github.com/alchemorsel/kitchen/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigPath is the config file to load; empty searches the default locations
type ConfigPath string

// CoreModule provides everything but the HTTP server: config, logging, the
// store and the application services. Command-line tools run on it alone.
var CoreModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	InfrastructureModule,
	ServiceModule,
)

// Module provides the whole service
var Module = fx.Options(
	CoreModule,
	HTTPModule,
	LifecycleModule,
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Named("fx")}
	}),
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the SQLite connection and the store on top of it
var DatabaseModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		db, err := sqlite.SetupDatabase(sqlite.Options{
			Path:        cfg.Database.Path,
			LogLevel:    cfg.GormLogLevel(),
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}

		log.Info("Connected to SQLite database",
			zap.String("path", cfg.Database.Path),
			zap.Int("schema_version", sqlite.SchemaVersion),
		)

		// appended before the server hooks, so it runs after them on stop
		lc.Append(fx.StopHook(func() error {
			return sqlite.Close(db)
		}))
		return db, nil
	},
	gormstore.NewStore,
	func(s *gormstore.Store) outbound.Store { return s },
)

// InfrastructureModule provides the change feed, settings store, generator and metrics
var InfrastructureModule = fx.Provide(
	changefeed.NewBus,
	func(bus *changefeed.Bus) outbound.ChangeFeed { return bus },

	func(cfg *config.Config, log *zap.Logger) *settingsstore.FileStore {
		return settingsstore.NewFileStore(cfg.Settings.Path, log)
	},
	func(fs *settingsstore.FileStore) outbound.SettingsStore { return fs },

	func(cfg *config.Config, log *zap.Logger) outbound.RecipeGenerator {
		return ai.NewGenerator(cfg.AI, log)
	},

	func() *prometheus.Registry {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return reg
	},
	func(reg *prometheus.Registry, bus *changefeed.Bus, log *zap.Logger) *monitoring.MetricsCollector {
		m := monitoring.NewMetricsCollector(reg, reg, log)
		m.WatchFeed(bus)
		return m
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(
		store outbound.Store,
		feed outbound.ChangeFeed,
		settingsStore outbound.SettingsStore,
		generator outbound.RecipeGenerator,
		metrics *monitoring.MetricsCollector,
		log *zap.Logger,
	) inbound.KitchenService {
		return kitchen.NewService(store, feed, settingsStore, generator, log, kitchen.WithMetrics(metrics))
	},
	fx.Annotate(
		transfer.NewService,
		fx.As(new(inbound.TransferService)),
	),
	fx.Annotate(
		seed.NewService,
		fx.As(new(inbound.SeedService)),
	),
)

// HTTPModule provides HTTP server, handlers and health checks
var HTTPModule = fx.Provide(
	NewHealthCheck,
	handlers.New,
	server.NewServer,
)

// NewHealthCheck registers the database, schema and settings directory checks
func NewHealthCheck(cfg *config.Config, log *zap.Logger, db *gorm.DB, store *gormstore.Store) (*healthcheck.HealthCheck, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	h := healthcheck.New(cfg.App.Version, log.Named("health"))
	h.Register("database", healthcheck.NewDatabaseChecker(sqlDB))
	h.Register("schema", healthcheck.NewCustomChecker("schema", func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		version, err := store.SchemaVersion(ctx)
		if err != nil {
			return healthcheck.StatusUnhealthy, err.Error(), nil
		}
		meta := map[string]int{"version": version, "expected": sqlite.SchemaVersion}
		if version != sqlite.SchemaVersion {
			return healthcheck.StatusDegraded, "Schema version mismatch", meta
		}
		return healthcheck.StatusHealthy, "", meta
	}))
	h.Register("settings", healthcheck.NewDirChecker(cfg.Settings.Path))
	return h, nil
}

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks seeds the store, starts the settings watcher and the
// HTTP server, and tears them down in reverse order
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	seeder inbound.SeedService,
	settingsFile *settingsstore.FileStore,
	srv *server.Server,
) {
	watchCtx, stopWatch := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting kitchen service",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			if cfg.Seed.Enabled {
				if _, err := seeder.Sync(ctx); err != nil {
					return fmt.Errorf("seed sync failed: %w", err)
				}
			}

			if cfg.Settings.Watch {
				err := settingsFile.Watch(watchCtx, func(s settings.AppSettings) {
					log.Info("Settings changed on disk",
						zap.String("path", settingsFile.Path()),
						zap.Int("version", s.Version),
					)
				})
				if err != nil {
					log.Warn("Settings watcher not started", zap.Error(err))
				}
			}

			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down kitchen service")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			stopWatch()

			// Flush logs
			_ = log.Sync()

			return nil
		},
	})
}
