package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"order-etl/internal/config"
	"order-etl/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// seed_source creates the source tables and fills them with sample orders.
// Usage: go run scripts/seed_source.go -orders 50
func main() {
	orders := flag.Int("orders", 20, "number of orders to generate")
	flag.Parse()

	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := seed(context.Background(), *orders, logger); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, orderCount int, logger zerolog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pool, err := database.NewPool(ctx, cfg.Source, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.CreateSourceSchema(ctx, pool); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	days := []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}
	brands := []string{"Acme", "Globex", "Initech", "Umbrella"}
	statuses := []string{"PENDING", "DELIVERED", "CANCELLED"}

	batch := &pgx.Batch{}

	clientUIDs := make([]string, 5)
	for i := range clientUIDs {
		clientUIDs[i] = uuid.NewString()
		batch.Queue(
			`INSERT INTO clients (uid, name, address, promotion_day) VALUES ($1, $2, $3, $4)`,
			clientUIDs[i], fmt.Sprintf("Client %d", i+1), fmt.Sprintf("%d Main St", i+1), days[rng.Intn(len(days))],
		)
	}

	productUIDs := make([]string, 10)
	for i := range productUIDs {
		productUIDs[i] = uuid.NewString()
		price := decimal.NewFromInt(int64(100 + rng.Intn(9900))).Shift(-2)
		batch.Queue(
			`INSERT INTO products (uid, name, brand, unit_price, tax_rate) VALUES ($1, $2, $3, $4, $5)`,
			productUIDs[i], fmt.Sprintf("Product %d", i+1), brands[rng.Intn(len(brands))], price, decimal.RequireFromString("0.16"),
		)
	}

	items := 0
	for i := 0; i < orderCount; i++ {
		orderUID := uuid.NewString()
		date := time.Now().UTC().AddDate(0, 0, -rng.Intn(60))
		batch.Queue(
			`INSERT INTO orders (uid, date_of_order, client_uid, status, latitude, longitude) VALUES ($1, $2, $3, $4, $5, $6)`,
			orderUID, date, clientUIDs[rng.Intn(len(clientUIDs))], statuses[rng.Intn(len(statuses))],
			decimal.NewFromFloat(14+rng.Float64()*18).Round(6), decimal.NewFromFloat(-117+rng.Float64()*30).Round(6),
		)

		lines := rng.Intn(4)
		for j := 0; j < lines; j++ {
			batch.Queue(
				`INSERT INTO order_items (order_uid, product_uid, quantity) VALUES ($1, $2, $3)`,
				orderUID, productUIDs[rng.Intn(len(productUIDs))], 1+rng.Intn(5),
			)
			items++
		}
	}

	if err := pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert sample data: %w", err)
	}

	logger.Info().
		Int("clients", len(clientUIDs)).
		Int("products", len(productUIDs)).
		Int("orders", orderCount).
		Int("items", items).
		Msg("source seeded")
	return nil
}
