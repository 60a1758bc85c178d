package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SourceSchema is the relational layout the extract stage reads.
// The job itself never runs it; it exists for seeding and tests.
const SourceSchema = `
	CREATE TABLE IF NOT EXISTS clients (
		uid TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		promotion_day CHAR(3) NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		uid TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		brand TEXT NOT NULL,
		unit_price NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0),
		tax_rate NUMERIC(5,4) NOT NULL CHECK (tax_rate >= 0)
	);

	CREATE TABLE IF NOT EXISTS orders (
		uid TEXT PRIMARY KEY,
		date_of_order TIMESTAMPTZ NOT NULL,
		client_uid TEXT NOT NULL,
		status TEXT NOT NULL,
		latitude NUMERIC(9,6) NOT NULL,
		longitude NUMERIC(9,6) NOT NULL
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_uid TEXT NOT NULL REFERENCES orders(uid),
		product_uid TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity >= 0)
	);

	CREATE INDEX IF NOT EXISTS idx_order_items_order_uid ON order_items(order_uid);
`

// CreateSourceSchema creates the source tables if they do not exist.
func CreateSourceSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, SourceSchema); err != nil {
		return fmt.Errorf("failed to create source schema: %w", err)
	}
	return nil
}
