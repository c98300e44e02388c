// Package server provides the HTTP server for the kitchen JSON API
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/alchemorsel/kitchen/internal/infrastructure/config"
	"github.com/alchemorsel/kitchen/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/kitchen/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/kitchen/internal/infrastructure/monitoring"
	"github.com/alchemorsel/kitchen/pkg/healthcheck"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// requestTimeout bounds every route except the event stream
const requestTimeout = 30 * time.Second

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	logger   *zap.Logger
	handlers *handlers.Handlers
	metrics  *monitoring.MetricsCollector
	health   *healthcheck.HealthCheck
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	h *handlers.Handlers,
	metrics *monitoring.MetricsCollector,
	health *healthcheck.HealthCheck,
) *Server {
	s := &Server{
		config:   cfg,
		logger:   logger.Named("server"),
		handlers: h,
		metrics:  metrics,
		health:   health,
	}

	s.router = s.setupRouter()

	s.server = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger, "/health", "/health/live", "/health/ready", "/metrics"))
	r.Use(chimiddleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.HTTPMiddleware)
	}
	r.Use(middleware.Security())
	r.Use(middleware.CORS(s.config.Server.CORSOrigins...))
	r.Use(middleware.NoCache())
	r.Use(middleware.MaxBody(s.config.Server.MaxBodyBytes))

	r.Get("/health", s.health.Handler())
	r.Get("/health/live", s.health.LivenessHandler())
	r.Get("/health/ready", s.health.ReadinessHandler())
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		// the event stream stays open; everything else is bounded and compressed
		r.Get("/events", s.handlers.Events)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(requestTimeout))
			r.Use(chimiddleware.Compress(5))
			s.setupAPIRoutes(r)
		})
	})

	return r
}

// setupAPIRoutes configures REST API routes
func (s *Server) setupAPIRoutes(r chi.Router) {
	h := s.handlers

	r.Route("/pantry", func(r chi.Router) {
		r.Get("/", h.ListPantry)
		r.Post("/", h.CreatePantryItem)
		r.Post("/bulk", h.BulkCreatePantryItems)
		r.Post("/bulk-delete", h.BulkDeletePantryItems)
		r.Post("/merge", h.AddOrUpdatePantryItem)
		r.Post("/remove", h.RemoveItemFromPantry)
		r.Post("/low-stock/shopping-list", h.AddLowStockToShoppingList)
		r.Get("/{id}", h.GetPantryItem)
		r.Patch("/{id}", h.UpdatePantryItem)
		r.Delete("/{id}", h.DeletePantryItem)
		r.Post("/{id}/adjust", h.AdjustPantryQuantity)
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.ListRecipes)
		r.Post("/", h.SaveRecipe)
		r.Get("/with-status", h.RecipesWithPantryStatus)
		r.Post("/bulk-delete", h.BulkDeleteRecipes)
		r.Get("/{id}", h.GetRecipe)
		r.Patch("/{id}", h.UpdateRecipe)
		r.Delete("/{id}", h.DeleteRecipe)
		r.Post("/{id}/favorite", h.ToggleFavorite)
		r.Get("/{id}/scaled", h.ScaleRecipe)
		r.Get("/{id}/pantry-status", h.RecipePantryStatus)
		r.Post("/{id}/shopping-list", h.AddMissingIngredients)
	})

	r.Route("/meal-plan", func(r chi.Router) {
		r.Get("/", h.ListMealPlan)
		r.Post("/", h.AddMealPlanEntry)
		r.Post("/bulk-delete", h.BulkDeleteMealPlanEntries)
		r.Post("/shopping-list", h.AddMissingIngredientsForMeals)
		r.Post("/generate-list", h.GenerateListFromMealPlan)
		r.Patch("/{id}", h.UpdateMealPlanEntry)
		r.Delete("/{id}", h.DeleteMealPlanEntry)
		r.Post("/{id}/replan", h.ReplanMealPlanEntry)
		r.Post("/{id}/cook", h.MarkMealAsCooked)
	})

	r.Route("/shopping-list", func(r chi.Router) {
		r.Get("/", h.ListShoppingList)
		r.Delete("/", h.ClearShoppingList)
		r.Get("/categories", h.ShoppingCategories)
		r.Post("/categories/rename", h.RenameShoppingListCategory)
		r.Post("/quick-add", h.QuickAddShoppingItem)
		r.Post("/bulk-text", h.BulkAddFromText)
		r.Post("/batch", h.BatchAddShoppingListItems)
		r.Post("/bulk-delete", h.BulkDeleteShoppingItems)
		r.Post("/move-to-pantry", h.MoveCheckedToPantry)
		r.Patch("/{id}", h.UpdateShoppingItem)
		r.Delete("/{id}", h.DeleteShoppingItem)
		r.Post("/{id}/check", h.SetShoppingItemChecked)
		r.Post("/{id}/reorder", h.ReorderShoppingItem)
	})

	r.Route("/ai", func(r chi.Router) {
		r.Post("/ideas", h.GenerateRecipeIdeas)
		r.Post("/recipe", h.GenerateRecipe)
		r.Post("/shopping-list", h.GenerateShoppingList)
	})

	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.SaveSettings)

	r.Get("/export", h.Export)
	r.Post("/import", h.Import)
	r.Post("/seed/sync", h.Sync)
}

// Start listens on the configured address and serves until Shutdown. The
// listener is bound before Start returns so a busy port fails startup.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}

	s.logger.Info("Starting HTTP server",
		zap.String("address", ln.Addr().String()),
		zap.String("environment", s.config.App.Environment),
	)

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
