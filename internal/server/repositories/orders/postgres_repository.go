package orders

import (
	"context"
	"fmt"

	"github.com/thriftedhq/thrifted/internal/dbx"
	"github.com/thriftedhq/thrifted/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {

	query :=
		`INSERT INTO orders (user_id, total_amount, status)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		order.UserID, order.TotalAmount, order.Status).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	itemQuery :=
		`INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
         VALUES ($1, $2, $3, $4)
		 `

	for _, item := range order.Items {
		_, err := r.db.ExecContext(ctx, itemQuery,
			order.ID, item.ProductID, item.Quantity, item.PriceAtPurchase)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	return order, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Order, error) {

	query :=
		`SELECT id, user_id, total_amount, status, created_at
         FROM orders
         WHERE user_id = $1
         ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Order
	byID := map[string]*models.Order{}
	for rows.Next() {
		o := &models.Order{}
		err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, o)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(result) == 0 {
		return result, nil
	}

	itemQuery :=
		`SELECT oi.order_id, oi.product_id, oi.quantity, oi.price_at_purchase
         FROM order_items oi
         JOIN orders o ON o.id = oi.order_id
         WHERE o.user_id = $1
		 `

	itemRows, err := r.db.QueryContext(ctx, itemQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID string
		var item models.OrderItem
		err := itemRows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.PriceAtPurchase)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
