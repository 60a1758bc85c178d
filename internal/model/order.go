package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoBrand is the most popular brand reported for an order without items.
const NoBrand = ""

// Order is a denormalised order ready to be loaded into the document store.
// Client and product data are copies taken at read time.
type Order struct {
	UID              string
	DateOfOrder      time.Time
	ClientUID        string
	ClientName       string
	ClientAddress    string
	Latitude         decimal.Decimal
	Longitude        decimal.Decimal
	Status           string
	Subtotal         decimal.Decimal
	Taxes            decimal.Decimal
	Total            decimal.Decimal
	IsPromotionDay   bool
	MostPopularBrand string
	OrderItems       []OrderItem
}

// OrderItem is a product line of an Order. UID identifies the product.
type OrderItem struct {
	UID      string
	Quantity int
	Price    decimal.Decimal
	Name     string
	Brand    string
}
