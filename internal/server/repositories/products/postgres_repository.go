package products

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

const productColumns = `id, name, description, category, clothing_type, brand,
        price, condition, likes, cover_photo_url, seller_handle, created_at`

func scanProduct(row *sql.Row) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.ClothingType,
		&p.Brand, &p.Price, &p.Condition, &p.Likes, &p.CoverPhotoURL,
		&p.SellerHandle, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {

	query :=
		`INSERT INTO products (name, description, category, clothing_type, brand,
            price, condition, cover_photo_url, seller_handle)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, likes, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Category, product.ClothingType,
		product.Brand, product.Price, product.Condition, product.CoverPhotoURL,
		product.SellerHandle).
		Scan(&product.ID, &product.Likes, &product.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return product, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	return r.queryList(ctx, query)
}

func (r *PostgresRepository) ListBySeller(ctx context.Context, sellerHandle string) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		 WHERE seller_handle = $1 ORDER BY created_at DESC`
	return r.queryList(ctx, query, sellerHandle)
}

// Update applies the non-nil fields of update and returns the new row.
// COALESCE keeps every omitted field unchanged in a single statement.
func (r *PostgresRepository) Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error) {

	query :=
		`UPDATE products SET
            name = COALESCE($2, name),
            description = COALESCE($3, description),
            category = COALESCE($4, category),
            clothing_type = COALESCE($5, clothing_type),
            brand = COALESCE($6, brand),
            price = COALESCE($7, price),
            condition = COALESCE($8, condition),
            cover_photo_url = COALESCE($9, cover_photo_url)
         WHERE id = $1
		 RETURNING ` + productColumns

	return scanProduct(r.db.QueryRowContext(ctx, query, id,
		update.Name, update.Description, update.Category, update.ClothingType,
		update.Brand, update.Price, update.Condition, update.CoverPhotoURL))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
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

func (r *PostgresRepository) queryList(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Product
	for rows.Next() {
		p := &models.Product{}
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category,
			&p.ClothingType, &p.Brand, &p.Price, &p.Condition, &p.Likes,
			&p.CoverPhotoURL, &p.SellerHandle, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
