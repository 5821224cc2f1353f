package orders

import (
	"context"

	"github.com/thriftedhq/thrifted/internal/server/models"
)

// Repository is the order store. Orders are immutable once created; Create
// is expected to run inside the checkout transaction so the order and the
// cart clear commit together.
type Repository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Order, error)
}
