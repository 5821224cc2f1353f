package models

// CartItem is one (product, quantity) line inside a cart. A cart holds at
// most one line per distinct product; repeated adds merge quantities.
type CartItem struct {
	ProductID string `db:"product_id"`
	Quantity  int    `db:"quantity"`

	// Product is the referenced listing, populated on reads so the
	// client can render the line without a second fetch. Nil when the
	// listing has been deleted since the item was added.
	Product *Product
}

// Cart is the per-user mutable collection of cart lines. There is exactly
// one cart per user; it is created lazily and emptied (not deleted) when
// an order is placed.
type Cart struct {
	ID     string `db:"id"`
	UserID string `db:"user_id"`
	Items  []CartItem
}
