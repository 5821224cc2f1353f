package carts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thriftedhq/thrifted/internal/common"
	"github.com/thriftedhq/thrifted/internal/dbx"
	"github.com/thriftedhq/thrifted/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {

	// the no-op DO UPDATE makes the statement return the existing row's id
	query :=
		`INSERT INTO carts (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING id
		 `

	cart := &models.Cart{UserID: userID}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&cart.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return cart, nil
}

func (r *PostgresRepository) LockByUserID(ctx context.Context, userID string) (string, error) {
	query := `SELECT id FROM carts WHERE user_id = $1 FOR UPDATE`

	var cartID string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return cartID, nil
}

func (r *PostgresRepository) AddItem(ctx context.Context, cartID string, productID string, qty int) error {

	query :=
		`INSERT INTO cart_items (cart_id, product_id, quantity)
         VALUES ($1, $2, $3)
		 ON CONFLICT (cart_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		 `

	if _, err := r.db.ExecContext(ctx, query, cartID, productID, qty); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetQuantity(ctx context.Context, cartID string, productID string, qty int) error {

	query :=
		`INSERT INTO cart_items (cart_id, product_id, quantity)
         VALUES ($1, $2, $3)
		 ON CONFLICT (cart_id, product_id)
		 DO UPDATE SET quantity = EXCLUDED.quantity
		 `

	if _, err := r.db.ExecContext(ctx, query, cartID, productID, qty); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveItem(ctx context.Context, cartID string, productID string) error {
	query := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	res, err := r.db.ExecContext(ctx, query, cartID, productID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListItems(ctx context.Context, cartID string) ([]models.CartItem, error) {

	query :=
		`SELECT ci.product_id, ci.quantity,
            p.id, p.name, p.description, p.category, p.clothing_type, p.brand,
            p.price, p.condition, p.likes, p.cover_photo_url, p.seller_handle,
            p.created_at
         FROM cart_items ci
         JOIN products p ON p.id = ci.product_id
         WHERE ci.cart_id = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		p := &models.Product{}
		err := rows.Scan(&item.ProductID, &item.Quantity,
			&p.ID, &p.Name, &p.Description, &p.Category, &p.ClothingType,
			&p.Brand, &p.Price, &p.Condition, &p.Likes, &p.CoverPhotoURL,
			&p.SellerHandle, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		item.Product = p
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) ClearItems(ctx context.Context, cartID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
