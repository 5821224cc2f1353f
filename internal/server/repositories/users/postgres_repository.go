package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

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

const userColumns = `id, username, handle, email, password_hash,
        profile_picture_url, cover_photo_url, bio, is_admin, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Handle, &user.Email,
		&user.PasswordHash, &user.ProfilePictureURL, &user.CoverPhotoURL,
		&user.Bio, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, handle, email, password_hash)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Handle, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrorDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(username) = lower($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) FindByHandle(ctx context.Context, handle string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(handle) = lower($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, handle))
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) FindByHandleOrEmail(ctx context.Context, handleOrEmail string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE lower(handle) = lower($1) OR lower(email) = lower($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, handleOrEmail))
}

// FindByResetToken only matches tokens that have not expired yet.
func (r *PostgresRepository) FindByResetToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE reset_token = $1 AND reset_token_expires > now()`
	return scanUser(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`
	return r.execExpectingRow(ctx, query, userID, passwordHash)
}

func (r *PostgresRepository) SetResetToken(ctx context.Context, userID string, token string, expires time.Time) error {
	query := `UPDATE users SET reset_token = $2, reset_token_expires = $3 WHERE id = $1`
	return r.execExpectingRow(ctx, query, userID, token, expires)
}

func (r *PostgresRepository) ClearResetToken(ctx context.Context, userID string) error {
	query := `UPDATE users SET reset_token = NULL, reset_token_expires = NULL WHERE id = $1`
	return r.execExpectingRow(ctx, query, userID)
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error {
	query :=
		`UPDATE users SET
            bio = COALESCE($2, bio),
            profile_picture_url = COALESCE($3, profile_picture_url),
            cover_photo_url = COALESCE($4, cover_photo_url)
         WHERE id = $1`
	return r.execExpectingRow(ctx, query, userID,
		update.Bio, update.ProfilePictureURL, update.CoverPhotoURL)
}

func (r *PostgresRepository) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	query := `UPDATE users SET is_admin = $2 WHERE id = $1`
	return r.execExpectingRow(ctx, query, userID, isAdmin)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(&user.ID, &user.Username, &user.Handle, &user.Email,
			&user.PasswordHash, &user.ProfilePictureURL, &user.CoverPhotoURL,
			&user.Bio, &user.IsAdmin, &user.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) execExpectingRow(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
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
