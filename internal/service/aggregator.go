package service

import (
	"fmt"

	"order-etl/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ItemLine pairs an order item with the product it references.
type ItemLine struct {
	Item    model.OrderItemRow
	Product model.Product
}

// Aggregator builds denormalised orders from source rows. It holds no state
// between calls.
type Aggregator struct {
	weekdays WeekdayResolver
	logger   zerolog.Logger
}

// NewAggregator creates an aggregator resolving weekdays with the given resolver.
func NewAggregator(weekdays WeekdayResolver, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		weekdays: weekdays,
		logger:   logger.With().Str("component", "aggregator").Logger(),
	}
}

// Aggregate joins an order row with its client and item lines.
//
// Taxes are recomputed after every line as the running subtotal times the
// current product's tax rate, so the result carries the last line's rate
// applied to the full subtotal. Lines are processed in the given order.
func (a *Aggregator) Aggregate(row model.OrderRow, client *model.Client, lines []ItemLine) (model.Order, error) {
	if client == nil {
		return model.Order{}, model.ClientNotFound(row.UID, row.ClientUID)
	}

	subtotal := decimal.Zero
	taxes := decimal.Zero
	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(lines))

	for _, line := range lines {
		subtotal = subtotal.Add(decimal.NewFromInt(int64(line.Item.Quantity)).Mul(line.Product.UnitPrice))
		taxes = subtotal.Mul(line.Product.TaxRate)
		total = subtotal.Add(taxes)

		items = append(items, model.OrderItem{
			UID:      line.Product.UID,
			Quantity: line.Item.Quantity,
			Price:    line.Product.UnitPrice,
			Name:     line.Product.Name,
			Brand:    line.Product.Brand,
		})
	}

	day, err := a.weekdays.ShortName(row.DateOfOrder)
	if err != nil {
		return model.Order{}, fmt.Errorf("order %s: failed to resolve weekday: %w", row.UID, err)
	}

	if len(items) == 0 {
		a.logger.Warn().Str("order_uid", row.UID).Msg("order has no items")
	}

	return model.Order{
		UID:              row.UID,
		DateOfOrder:      row.DateOfOrder,
		ClientUID:        client.UID,
		ClientName:       client.Name,
		ClientAddress:    client.Address,
		Latitude:         row.Latitude,
		Longitude:        row.Longitude,
		Status:           row.Status,
		Subtotal:         subtotal,
		Taxes:            taxes,
		Total:            total,
		IsPromotionDay:   day == client.PromotionDay,
		MostPopularBrand: mostPopularBrand(items),
		OrderItems:       items,
	}, nil
}

// mostPopularBrand returns the brand of the first item with the highest
// quantity, or model.NoBrand for an empty order.
func mostPopularBrand(items []model.OrderItem) string {
	if len(items) == 0 {
		return model.NoBrand
	}

	best := items[0]
	for _, item := range items[1:] {
		if item.Quantity > best.Quantity {
			best = item
		}
	}
	return best.Brand
}
