package repository

import (
	"context"

	"order-etl/internal/model"

	"github.com/jackc/pgx/v5"
)

// SourceRepository defines read-only access to the relational order store.
// Every lookup runs inside the read transaction that owns the order cursor.
type SourceRepository interface {
	// BeginReadTx starts a read-only transaction pinned to one connection.
	BeginReadTx(ctx context.Context) (pgx.Tx, error)

	// OpenOrderCursor declares the server-side cursor over all orders.
	OpenOrderCursor(ctx context.Context, tx pgx.Tx) error

	// FetchOrders returns up to n rows from the order cursor.
	// An empty slice means the cursor is exhausted.
	FetchOrders(ctx context.Context, tx pgx.Tx, n int) ([]model.OrderRow, error)

	// CloseOrderCursor releases the order cursor.
	CloseOrderCursor(ctx context.Context, tx pgx.Tx) error

	// GetClientByUID retrieves a client. Returns nil when it does not exist.
	GetClientByUID(ctx context.Context, tx pgx.Tx, uid string) (*model.Client, error)

	// GetOrderItemsByOrderUID retrieves the items of an order in query order.
	GetOrderItemsByOrderUID(ctx context.Context, tx pgx.Tx, orderUID string) ([]model.OrderItemRow, error)

	// GetProductsByUIDs retrieves products keyed by uid. Unknown uids are absent from the map.
	GetProductsByUIDs(ctx context.Context, tx pgx.Tx, uids []string) (map[string]model.Product, error)
}

// OrderDocumentRepository defines write access to the destination document collection.
type OrderDocumentRepository interface {
	// EnsureUniqueIndex creates the unique index on uid if it does not exist.
	EnsureUniqueIndex(ctx context.Context) error

	// InsertMany inserts documents unordered. Duplicate uids are skipped, not failed.
	InsertMany(ctx context.Context, docs []model.OrderDocument) (model.LoadResult, error)
}
