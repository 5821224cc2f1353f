package models

import "time"

// OrderItem freezes one cart line at checkout time. PriceAtPurchase is
// captured from the listing's price at the moment of order creation and
// is never recomputed afterwards.
type OrderItem struct {
	ProductID       string  `db:"product_id"`
	Quantity        int     `db:"quantity"`
	PriceAtPurchase float64 `db:"price_at_purchase"`
}

// Order is an immutable record of a completed checkout.
type Order struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Items       []OrderItem
	TotalAmount float64   `db:"total_amount"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

// OrderStatusPending is the initial status of every new order.
const OrderStatusPending = "Pending"
