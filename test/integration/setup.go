package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"order-etl/internal/archive"
	"order-etl/internal/config"
	"order-etl/internal/database"
	"order-etl/internal/metrics"
	"order-etl/internal/repository"
	"order-etl/internal/service"
	"order-etl/internal/weekday"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
)

// TestEnv holds a source database and a destination document store.
type TestEnv struct {
	Pool       *pgxpool.Pool
	Mongo      *mongo.Client
	Collection *mongo.Collection
}

// SetupTestEnv starts PostgreSQL and MongoDB test containers.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	ctx := context.Background()
	logger := zerolog.Nop()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := database.NewPool(ctx, config.SourceConfig{
		ConnectionString: connStr,
		MaxConnections:   2,
		MaxConnLifetime:  300,
	}, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.CreateSourceSchema(ctx, pool); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start mongodb container: %v", err)
	}
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate mongodb container: %v", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get mongodb uri: %v", err)
	}

	sink := config.SinkConfig{ConnectionString: uri, Database: "etl", Collection: "orders"}
	client, err := database.NewMongoClient(ctx, sink, logger)
	if err != nil {
		t.Fatalf("failed to connect to mongodb: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return &TestEnv{
		Pool:       pool,
		Mongo:      client,
		Collection: client.Database(sink.Database).Collection(sink.Collection),
	}
}

// NewETL wires the full job against the test environment.
func (e *TestEnv) NewETL(t *testing.T, runID string, archiver archive.Archiver) (service.ETLService, *metrics.Registry) {
	t.Helper()

	logger := zerolog.Nop()
	resolver, err := weekday.NewResolver(weekday.DefaultLocale, time.UTC)
	if err != nil {
		t.Fatalf("failed to create weekday resolver: %v", err)
	}

	registry := metrics.NewRegistry()
	etl := service.NewETLService(
		repository.NewSourceRepository(e.Pool, logger),
		repository.NewOrderDocumentRepository(e.Collection, logger),
		service.NewAggregator(resolver, logger),
		archiver,
		registry,
		service.ETLConfig{RunID: runID, FetchSize: 2},
		logger,
	)
	return etl, registry
}

// SeedSource inserts three clients' worth of orders. Orders are inserted as
// O3, O1, O2 so that source order differs from uid order.
func SeedSource(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	statements := []string{
		`INSERT INTO clients (uid, name, address, promotion_day) VALUES
			('C1', 'Jane Doe', '1 Main St', 'MON'),
			('C2', 'John Roe', '2 High St', 'FRI')`,
		`INSERT INTO products (uid, name, brand, unit_price, tax_rate) VALUES
			('P1', 'Soap', 'Acme', 10.00, 0.1000),
			('P2', 'Brush', 'Bristle', 5.00, 0.2000),
			('P3', 'Towel', 'Cotton', 7.25, 0.1600)`,
		`INSERT INTO orders (uid, date_of_order, client_uid, status, latitude, longitude) VALUES
			('O3', '2024-03-04 12:00:00+00', 'C1', 'DELIVERED', 19.432608, -99.133209),
			('O1', '2024-03-05 11:00:00+00', 'C2', 'PENDING', 20.659698, -103.349609),
			('O2', '2024-03-06 12:00:00+00', 'C1', 'CANCELLED', 25.686613, -100.316116)`,
		`INSERT INTO order_items (order_uid, product_uid, quantity) VALUES
			('O3', 'P1', 2),
			('O3', 'P2', 1),
			('O1', 'P3', 3),
			('O1', 'P1', 3),
			('O1', 'P2', 1)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("failed to seed source: %v", err)
		}
	}
}

// CleanupSource removes all source rows.
func CleanupSource(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "products", "clients"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
