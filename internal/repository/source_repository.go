package repository

import (
	"context"
	"fmt"

	"order-etl/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderCursorName = "orders_cursor"

// sourceRepository implements the SourceRepository interface using PostgreSQL.
type sourceRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSourceRepository creates a new PostgreSQL-backed source repository.
func NewSourceRepository(pool *pgxpool.Pool, logger zerolog.Logger) SourceRepository {
	return &sourceRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "source").Logger(),
	}
}

// BeginReadTx starts a read-only transaction. Cursors only live inside a transaction.
func (r *sourceRepository) BeginReadTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin read transaction")
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	return tx, nil
}

// OpenOrderCursor declares a forward-only cursor over every order.
func (r *sourceRepository) OpenOrderCursor(ctx context.Context, tx pgx.Tx) error {
	query := `
		DECLARE ` + orderCursorName + ` NO SCROLL CURSOR FOR
		SELECT uid, date_of_order, client_uid, status, latitude, longitude
		FROM orders
	`

	if _, err := tx.Exec(ctx, query); err != nil {
		r.logger.Error().Err(err).Msg("failed to declare order cursor")
		return fmt.Errorf("failed to declare order cursor: %w", err)
	}

	r.logger.Debug().Str("cursor", orderCursorName).Msg("order cursor declared")

	return nil
}

// FetchOrders reads the next page of the order cursor.
func (r *sourceRepository) FetchOrders(ctx context.Context, tx pgx.Tx, n int) ([]model.OrderRow, error) {
	// FETCH takes no bind parameters and its row shape depends on the cursor,
	// so it is sent over the simple protocol instead of being prepared.
	query := fmt.Sprintf("FETCH FORWARD %d FROM %s", n, orderCursorName)

	rows, err := tx.Query(ctx, query, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		r.logger.Error().Err(err).Int("fetch_size", n).Msg("failed to fetch orders")
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.OrderRow, 0, n)
	for rows.Next() {
		var o model.OrderRow
		err := rows.Scan(&o.UID, &o.DateOfOrder, &o.ClientUID, &o.Status, &o.Latitude, &o.Longitude)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// CloseOrderCursor closes the order cursor.
func (r *sourceRepository) CloseOrderCursor(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, "CLOSE "+orderCursorName); err != nil {
		r.logger.Error().Err(err).Msg("failed to close order cursor")
		return fmt.Errorf("failed to close order cursor: %w", err)
	}
	return nil
}

// GetClientByUID retrieves a single client by its uid.
func (r *sourceRepository) GetClientByUID(ctx context.Context, tx pgx.Tx, uid string) (*model.Client, error) {
	query := `
		SELECT uid, name, address, promotion_day
		FROM clients
		WHERE uid = $1
	`

	var c model.Client
	err := tx.QueryRow(ctx, query, uid).Scan(&c.UID, &c.Name, &c.Address, &c.PromotionDay)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("client_uid", uid).Msg("client not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("client_uid", uid).Msg("failed to query client")
		return nil, fmt.Errorf("failed to query client: %w", err)
	}

	return &c, nil
}

// GetOrderItemsByOrderUID retrieves all items of an order.
func (r *sourceRepository) GetOrderItemsByOrderUID(ctx context.Context, tx pgx.Tx, orderUID string) ([]model.OrderItemRow, error) {
	query := `
		SELECT order_uid, product_uid, quantity
		FROM order_items
		WHERE order_uid = $1
	`

	rows, err := tx.Query(ctx, query, orderUID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_uid", orderUID).
			Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItemRow
	for rows.Next() {
		var item model.OrderItemRow
		err := rows.Scan(&item.OrderUID, &item.ProductUID, &item.Quantity)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// GetProductsByUIDs retrieves multiple products in one round trip.
func (r *sourceRepository) GetProductsByUIDs(ctx context.Context, tx pgx.Tx, uids []string) (map[string]model.Product, error) {
	if len(uids) == 0 {
		return map[string]model.Product{}, nil
	}

	query := `
		SELECT uid, name, brand, unit_price, tax_rate
		FROM products
		WHERE uid = ANY($1)
	`

	rows, err := tx.Query(ctx, query, uids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(uids)).Msg("failed to query products by uids")
		return nil, fmt.Errorf("failed to query products by uids: %w", err)
	}
	defer rows.Close()

	products := make(map[string]model.Product, len(uids))
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.UID, &p.Name, &p.Brand, &p.UnitPrice, &p.TaxRate)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products[p.UID] = p
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
