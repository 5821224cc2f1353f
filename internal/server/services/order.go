package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/thriftedhq/thrifted/internal/common"
	"github.com/thriftedhq/thrifted/internal/dbx"
	"github.com/thriftedhq/thrifted/internal/server/models"
	"github.com/thriftedhq/thrifted/internal/server/repositories/repomanager"
)

// OrderService turns carts into immutable orders.
type OrderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewOrderService(db *sql.DB, m repomanager.RepositoryManager) *OrderService {
	return &OrderService{db: db, repomanager: m}
}

// PlaceOrder converts the user's cart into an order and empties the cart,
// all inside one transaction. The cart row is locked first, so a concurrent
// item mutation either lands before the snapshot or is preserved for the
// next order; items can never be silently lost. Each line's price is frozen
// at the listing's current price. An empty (or never-created) cart yields
// ErrorEmptyCart.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string) (*models.Order, error) {
	var order *models.Order

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		cartsRepo := s.repomanager.Carts(tx)

		cartID, err := cartsRepo.LockByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorEmptyCart
			}
			return err
		}

		items, err := cartsRepo.ListItems(ctx, cartID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return common.ErrorEmptyCart
		}

		var total float64
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			orderItems = append(orderItems, models.OrderItem{
				ProductID:       item.ProductID,
				Quantity:        item.Quantity,
				PriceAtPurchase: item.Product.Price,
			})
			total += item.Product.Price * float64(item.Quantity)
		}

		order, err = s.repomanager.Orders(tx).Create(ctx, &models.Order{
			UserID:      userID,
			Items:       orderItems,
			TotalAmount: total,
			Status:      models.OrderStatusPending,
		})
		if err != nil {
			return err
		}

		return cartsRepo.ClearItems(ctx, cartID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns the user's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]*models.Order, error) {
	return s.repomanager.Orders(s.db).ListByUser(ctx, userID)
}
