package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thriftedhq/thrifted/internal/common"
	"github.com/thriftedhq/thrifted/internal/server/models"
	"github.com/thriftedhq/thrifted/internal/server/repositories/repomanager"
)

// CartService manages the per-user cart. The cart row is created lazily on
// first access; item mutations are single upsert statements so concurrent
// requests for the same user cannot lose updates.
type CartService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCartService(db *sql.DB, m repomanager.RepositoryManager) *CartService {
	return &CartService{db: db, repomanager: m}
}

// GetCart returns the user's cart with its lines and their listings.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	repo := s.repomanager.Carts(s.db)

	cart, err := repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return cart, nil
}

// AddItem merges qty of the product into the user's cart; repeated adds for
// the same product accumulate into one line. The listing must exist.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", common.ErrorInvalidArgument)
	}

	if _, err := s.repomanager.Products(s.db).GetByID(ctx, productID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}

	repo := s.repomanager.Carts(s.db)
	cart, err := repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := repo.AddItem(ctx, cart.ID, productID, qty); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// SetQuantity replaces the line's quantity with an absolute value, creating
// the line if the product is not in the cart yet.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", common.ErrorInvalidArgument)
	}

	if _, err := s.repomanager.Products(s.db).GetByID(ctx, productID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}

	repo := s.repomanager.Carts(s.db)
	cart, err := repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := repo.SetQuantity(ctx, cart.ID, productID, qty); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// RemoveItem deletes the product's line from the cart entirely.
// ErrorNotFound is returned when the product is not in the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	repo := s.repomanager.Carts(s.db)

	cart, err := repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := repo.RemoveItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}
