// Package main provides the entry point for the kitchen data service.
//
//	kitchend [-config path] [serve]       run the HTTP API
//	kitchend [-config path] export file   write a JSON snapshot ("-" for stdout)
//	kitchend [-config path] import file   replace all data with a snapshot
//	kitchend [-config path] seed          run the seed sync once
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alchemorsel/kitchen/internal/infrastructure/container"
	"github.com/alchemorsel/kitchen/internal/ports/inbound"
	"go.uber.org/fx"
)

const shutdownTimeout = 30 * time.Second

// services are what the offline commands run against
type services struct {
	transfer inbound.TransferService
	seed     inbound.SeedService
}

func main() {
	configPath := flag.String("config", "", "Configuration file path")
	flag.Parse()

	path := container.ConfigPath(*configPath)
	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "serve"
	}

	var err error
	switch cmd {
	case "serve":
		err = serve(path)
	case "export":
		err = withCore(path, func(ctx context.Context, s services) error {
			return exportFile(ctx, s.transfer, flag.Arg(1))
		})
	case "import":
		err = withCore(path, func(ctx context.Context, s services) error {
			return importFile(ctx, s.transfer, flag.Arg(1))
		})
	case "seed":
		err = withCore(path, func(ctx context.Context, s services) error {
			result, err := s.seed.Sync(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("first run: %t, pantry items: %d, recipes added: %d\n",
				result.FirstRun, result.PantrySeeded, result.RecipesAdded)
			return nil
		})
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("kitchend %s: %v", cmd, err)
	}
}

func serve(path container.ConfigPath) error {
	app := fx.New(
		container.Module,
		fx.Supply(path),
	)

	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	return app.Stop(shutdownCtx)
}

// withCore runs fn against the store without starting the HTTP server
func withCore(path container.ConfigPath, fn func(context.Context, services) error) error {
	var s services
	app := fx.New(
		container.CoreModule,
		fx.Supply(path),
		fx.NopLogger,
		fx.Populate(&s.transfer, &s.seed),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}
	runErr := fn(ctx, s)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func exportFile(ctx context.Context, t inbound.TransferService, name string) error {
	if name == "" || name == "-" {
		return t.WriteExport(ctx, os.Stdout)
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := t.WriteExport(ctx, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func importFile(ctx context.Context, t inbound.TransferService, name string) error {
	var r io.Reader = os.Stdin
	if name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	result, err := t.Import(ctx, r)
	if err != nil {
		return err
	}
	fmt.Printf("imported pantry: %d, recipes: %d, meal plan: %d, shopping list: %d, settings: %t\n",
		result.Pantry, result.Recipes, result.MealPlan, result.ShoppingList, result.Settings)
	return nil
}
