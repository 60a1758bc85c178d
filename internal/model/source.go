package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRow is a row of the source orders table.
type OrderRow struct {
	UID         string          `db:"uid"`
	DateOfOrder time.Time       `db:"date_of_order"`
	ClientUID   string          `db:"client_uid"`
	Status      string          `db:"status"`
	Latitude    decimal.Decimal `db:"latitude"`
	Longitude   decimal.Decimal `db:"longitude"`
}

// Client is a row of the source clients table.
type Client struct {
	UID          string `db:"uid"`
	Name         string `db:"name"`
	Address      string `db:"address"`
	PromotionDay string `db:"promotion_day"`
}

// OrderItemRow is a row of the source order_items table.
type OrderItemRow struct {
	OrderUID   string `db:"order_uid"`
	ProductUID string `db:"product_uid"`
	Quantity   int    `db:"quantity"`
}

// Product is a row of the source products table.
type Product struct {
	UID       string          `db:"uid"`
	Name      string          `db:"name"`
	Brand     string          `db:"brand"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	TaxRate   decimal.Decimal `db:"tax_rate"`
}
