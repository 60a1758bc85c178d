package model

import "time"

// OrderDocument is the BSON shape of an Order in the destination collection.
type OrderDocument struct {
	UID              string              `bson:"uid" json:"uid"`
	DateOfOrder      time.Time           `bson:"date_of_order" json:"date_of_order"`
	ClientUID        string              `bson:"client_uid" json:"client_uid"`
	ClientName       string              `bson:"client_name" json:"client_name"`
	ClientAddress    string              `bson:"client_address" json:"client_address"`
	Latitude         float64             `bson:"latitude" json:"latitude"`
	Longitude        float64             `bson:"longitude" json:"longitude"`
	Status           string              `bson:"status" json:"status"`
	Subtotal         float64             `bson:"subtotal" json:"subtotal"`
	Taxes            float64             `bson:"taxes" json:"taxes"`
	Total            float64             `bson:"total" json:"total"`
	IsPromotionDay   bool                `bson:"is_promotion_day" json:"is_promotion_day"`
	MostPopularBrand string              `bson:"most_popular_brand" json:"most_popular_brand"`
	OrderItems       []OrderItemDocument `bson:"order_items" json:"order_items"`
}

// OrderItemDocument is the BSON shape of an OrderItem nested in an OrderDocument.
type OrderItemDocument struct {
	UID      string  `bson:"uid" json:"uid"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Price    float64 `bson:"price" json:"price"`
	Name     string  `bson:"name" json:"name"`
	Brand    string  `bson:"brand" json:"brand"`
}

// NewOrderDocument flattens an Order into its document form.
// Decimal amounts become doubles; precision loss is accepted.
func NewOrderDocument(o Order) OrderDocument {
	items := make([]OrderItemDocument, len(o.OrderItems))
	for i, item := range o.OrderItems {
		items[i] = OrderItemDocument{
			UID:      item.UID,
			Quantity: item.Quantity,
			Price:    item.Price.InexactFloat64(),
			Name:     item.Name,
			Brand:    item.Brand,
		}
	}

	return OrderDocument{
		UID:              o.UID,
		DateOfOrder:      o.DateOfOrder,
		ClientUID:        o.ClientUID,
		ClientName:       o.ClientName,
		ClientAddress:    o.ClientAddress,
		Latitude:         o.Latitude.InexactFloat64(),
		Longitude:        o.Longitude.InexactFloat64(),
		Status:           o.Status,
		Subtotal:         o.Subtotal.InexactFloat64(),
		Taxes:            o.Taxes.InexactFloat64(),
		Total:            o.Total.InexactFloat64(),
		IsPromotionDay:   o.IsPromotionDay,
		MostPopularBrand: o.MostPopularBrand,
		OrderItems:       items,
	}
}

// NewOrderDocuments flattens orders preserving their order.
func NewOrderDocuments(orders []Order) []OrderDocument {
	docs := make([]OrderDocument, len(orders))
	for i, o := range orders {
		docs[i] = NewOrderDocument(o)
	}
	return docs
}

// LoadResult summarises one bulk insert into the destination collection.
type LoadResult struct {
	Requested  int
	Inserted   int
	Duplicates int
}
