package main

import (
	"context"
	"flag"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vamshi335235/priya-Traders-project/internal/config"
	"github.com/vamshi335235/priya-Traders-project/internal/database"
	"github.com/vamshi335235/priya-Traders-project/internal/enum"
)

const maker = "Priya Traders - Home Made"

var initialProducts = []database.CreateProductParams{
	{
		Name:        "Premium Idly Batter",
		Description: "Stone-ground, naturally fermented, home-style batter for soft and fluffy idlis.",
		Price:       70,
		ImageUrl:    "https://images.unsplash.com/photo-1589301760014-d929f3979dbc?auto=format&fit=crop&q=80&w=800",
		Category:    enum.CategoryBatter,
		Maker:       maker,
	},
	{
		Name:        "Crispy Dosa Batter",
		Description: "Perfectly balanced batter for restaurant-style thin and crispy golden dosas.",
		Price:       70,
		ImageUrl:    "https://images.unsplash.com/photo-1668236543090-82eba5ee5976?auto=format&fit=crop&q=80&w=800",
		Category:    enum.CategoryBatter,
		Maker:       maker,
	},
}

func main() {
	migrateFirst := flag.Bool("migrate", true, "Apply pending migrations before seeding")
	flag.Parse()

	cfg := config.Load()

	if *migrateFirst {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to migrate: %v", err)
		}
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Both products or neither.
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	q := database.New(tx)
	n, err := q.CountProducts(ctx)
	if err != nil {
		log.Fatalf("Failed to count products: %v", err)
	}
	if n > 0 {
		log.Printf("Catalog already has %d products, skipping", n)
		return
	}

	for _, p := range initialProducts {
		created, err := q.CreateProduct(ctx, p)
		if err != nil {
			log.Fatalf("Failed to seed %q: %v", p.Name, err)
		}
		log.Printf("Created product '%s' (ID: %s)", created.Name, created.ID)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}
	log.Println("Seed completed successfully")
}
