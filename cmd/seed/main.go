package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/storeops/storefront/internal/config"
	"github.com/storeops/storefront/internal/platform/postgres"
	"github.com/storeops/storefront/pkg/logging"
)

// Seeds a small sample catalog: categories, products, stores, and per-store
// inventory. Intended for local development only; it wipes existing data.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logging.New("storefront-seed", cfg.LogLevel)

	ctx := context.Background()
	pool, err := postgres.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Error("schema bootstrap failed", "err", err)
		os.Exit(1)
	}

	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, inventory, products, categories, stores RESTART IDENTITY CASCADE`); err != nil {
		log.Error("truncate failed", "err", err)
		os.Exit(1)
	}

	categoryNames := []string{"Electronics", "Books", "Groceries", "Fashion", "Home"}
	categoryIDs := make([]int64, 0, len(categoryNames))
	for _, name := range categoryNames {
		var id int64
		if err := pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&id); err != nil {
			log.Error("seed category failed", "err", err)
			os.Exit(1)
		}
		categoryIDs = append(categoryIDs, id)
	}

	productIDs := make([]int64, 0, 200)
	for i := 0; i < 200; i++ {
		var id int64
		err := pool.QueryRow(ctx, `
			INSERT INTO products (title, description, price_cents, category_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`,
			fmt.Sprintf("Sample product %03d", i+1),
			fmt.Sprintf("Description for sample product %03d", i+1),
			int64(rand.Intn(495000)+5000),
			categoryIDs[rand.Intn(len(categoryIDs))],
		).Scan(&id)
		if err != nil {
			log.Error("seed product failed", "err", err)
			os.Exit(1)
		}
		productIDs = append(productIDs, id)
	}

	storeNames := []string{"Downtown", "Uptown", "Riverside", "Airport", "Harbor"}
	for _, name := range storeNames {
		var storeID int64
		err := pool.QueryRow(ctx, `INSERT INTO stores (name, location) VALUES ($1, $2) RETURNING id`,
			name+" Store", name).Scan(&storeID)
		if err != nil {
			log.Error("seed store failed", "err", err)
			os.Exit(1)
		}

		for _, productID := range sample(productIDs, 80) {
			_, err := pool.Exec(ctx, `INSERT INTO inventory (store_id, product_id, quantity) VALUES ($1, $2, $3)`,
				storeID, productID, int64(rand.Intn(50)))
			if err != nil {
				log.Error("seed inventory failed", "err", err)
				os.Exit(1)
			}
		}
	}

	log.Info("seed complete",
		"categories", len(categoryIDs),
		"products", len(productIDs),
		"stores", len(storeNames))
}

func sample(ids []int64, n int) []int64 {
	shuffled := make([]int64, len(ids))
	copy(shuffled, ids)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
