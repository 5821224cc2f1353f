package products

import (
	"context"

	"github.com/thriftedhq/thrifted/internal/server/models"
)

// Repository is the catalog store.
type Repository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	ListAll(ctx context.Context) ([]*models.Product, error)
	ListBySeller(ctx context.Context, sellerHandle string) ([]*models.Product, error)
	Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}
