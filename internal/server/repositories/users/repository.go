package users

import (
	"context"
	"time"

	"github.com/thriftedhq/thrifted/internal/server/models"
)

// Repository is the credential store. All identifier lookups compare
// case-insensitively, matching the uniqueness rules of the schema.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByHandle(ctx context.Context, handle string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByHandleOrEmail(ctx context.Context, handleOrEmail string) (*models.User, error)
	FindByResetToken(ctx context.Context, token string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error
	SetResetToken(ctx context.Context, userID string, token string, expires time.Time) error
	ClearResetToken(ctx context.Context, userID string) error
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error
	SetAdmin(ctx context.Context, userID string, isAdmin bool) error
	ListAll(ctx context.Context) ([]*models.User, error)
}

// ProfileUpdate carries a partial profile edit. Nil fields are left
// unchanged; pointers to empty strings clear the value.
type ProfileUpdate struct {
	Bio               *string
	ProfilePictureURL *string
	CoverPhotoURL     *string
}
