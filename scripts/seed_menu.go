//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"dinekart/internal/config"
	"dinekart/internal/database"
	"dinekart/internal/model"
	"dinekart/internal/repository"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

// seedMenu loads a starter menu. Items that already exist are left untouched.
// Connection settings come from the same DB_* variables as the server.
func main() {
	var dbCfg config.DatabaseConfig
	if err := env.Parse(&dbCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid database settings: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(config.LoggerConfig{Level: "info", Format: "console"})
	ctx := context.Background()

	pool, err := database.NewPool(ctx, dbCfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	repo := repository.NewMenuRepository(pool, logger)

	items := []model.MenuItem{
		{ID: "bruschetta", Name: "Tomato Bruschetta", Description: "Grilled sourdough, vine tomatoes, basil", Price: decimal.RequireFromString("9.50"), Category: "Starters"},
		{ID: "arancini", Name: "Mushroom Arancini", Description: "Porcini risotto balls with aioli", Price: decimal.RequireFromString("11.00"), Category: "Starters"},
		{ID: "lamb-shoulder", Name: "Slow-Roast Lamb Shoulder", Description: "Rosemary jus, crushed potatoes", Price: decimal.RequireFromString("32.00"), Category: "Mains"},
		{ID: "barramundi", Name: "Pan-Fried Barramundi", Description: "Lemon butter, greens", Price: decimal.RequireFromString("29.50"), Category: "Mains"},
		{ID: "gnocchi", Name: "Pumpkin Gnocchi", Description: "Sage brown butter, pecorino", Price: decimal.RequireFromString("24.00"), Category: "Mains"},
		{ID: "tiramisu", Name: "Tiramisu", Description: "Espresso, mascarpone, cocoa", Price: decimal.RequireFromString("12.00"), Category: "Desserts"},
		{ID: "panna-cotta", Name: "Vanilla Panna Cotta", Description: "Poached rhubarb", Price: decimal.RequireFromString("11.50"), Category: "Desserts"},
	}

	now := time.Now().UTC()
	created := 0
	for i := range items {
		items[i].Available = true
		items[i].CreatedAt = now

		existing, err := repo.GetByID(ctx, items[i].ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Lookup of %s failed: %v\n", items[i].ID, err)
			os.Exit(1)
		}
		if existing != nil {
			continue
		}

		if err := repo.Create(ctx, &items[i]); err != nil {
			fmt.Fprintf(os.Stderr, "Insert of %s failed: %v\n", items[i].ID, err)
			os.Exit(1)
		}
		created++
	}

	fmt.Printf("Seeded %d of %d menu items\n", created, len(items))
}
