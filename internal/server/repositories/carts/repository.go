package carts

import (
	"context"

	"github.com/thriftedhq/thrifted/internal/server/models"
)

// Repository is the cart store. AddItem and SetQuantity are single-statement
// upserts so concurrent calls for the same owner never lose updates; the
// merge-by-product rule (one line per distinct product) is backed by the
// (cart_id, product_id) primary key.
type Repository interface {
	// GetOrCreate returns the owner's cart row, creating an empty one on
	// first access. Items are not loaded.
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)

	// LockByUserID returns the owner's cart id while holding a row lock
	// for the remainder of the surrounding transaction. Order placement
	// uses this to serialize against concurrent item mutations.
	LockByUserID(ctx context.Context, userID string) (string, error)

	// AddItem merges qty into an existing line for the product or inserts
	// a new line.
	AddItem(ctx context.Context, cartID string, productID string, qty int) error

	// SetQuantity sets the line's quantity to an absolute value, inserting
	// the line if absent.
	SetQuantity(ctx context.Context, cartID string, productID string, qty int) error

	// RemoveItem deletes the line entirely.
	RemoveItem(ctx context.Context, cartID string, productID string) error

	// ListItems returns the cart's lines with their listings populated.
	ListItems(ctx context.Context, cartID string) ([]models.CartItem, error)

	// ClearItems removes all lines, leaving the cart row in place.
	ClearItems(ctx context.Context, cartID string) error
}
