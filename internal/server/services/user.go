// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login sessions, profile edits and
// the password-reset flow.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/thriftedhq/thrifted/internal/common"
	"github.com/thriftedhq/thrifted/internal/dbx"
	"github.com/thriftedhq/thrifted/internal/server/config"
	"github.com/thriftedhq/thrifted/internal/server/mail"
	"github.com/thriftedhq/thrifted/internal/server/models"
	"github.com/thriftedhq/thrifted/internal/server/ratelimit"
	"github.com/thriftedhq/thrifted/internal/server/repositories/repomanager"
	"github.com/thriftedhq/thrifted/internal/server/repositories/users"
	"github.com/thriftedhq/thrifted/internal/server/sessions"
)

const (
	bcryptCost = 10

	resetTokenBytes = 32
	resetTokenTTL   = time.Hour
)

// dummyHash is compared against when the login identifier is unknown, so
// unknown and known identifiers take a comparable amount of time.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

const passwordSpecials = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?~`"

// UserService provides account-related operations:
// - Signup: create accounts with hashed passwords
// - Login/Logout: verify credentials and manage sessions
// - UpdateProfile: partial profile edits
// - ForgotPassword/ResetPassword: e-mail based password recovery
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    sessions.Store
	mailer      mail.Mailer
	limiter     *ratelimit.Limiter
	config      *config.Config
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, store sessions.Store,
	mailer mail.Mailer, limiter *ratelimit.Limiter, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		sessions:    store,
		mailer:      mailer,
		limiter:     limiter,
		config:      cfg,
	}
}

// ValidatePassword enforces the server-side password policy: at least 8
// characters, at least one digit and at least one special character.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", common.ErrorInvalidArgument)
	}
	if !strings.ContainsAny(password, "0123456789") {
		return fmt.Errorf("%w: password must contain at least one number", common.ErrorInvalidArgument)
	}
	if !strings.ContainsAny(password, passwordSpecials) {
		return fmt.Errorf("%w: password must contain at least one special character", common.ErrorInvalidArgument)
	}
	return nil
}

// Signup registers a new account. Username, handle and email are trimmed and
// must each be unique (case-insensitively); the checks run per field so the
// caller learns which one collided. The insert still enforces uniqueness, so
// a concurrent duplicate loses with ErrorDuplicate rather than slipping in.
func (s *UserService) Signup(ctx context.Context, username, handle, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	handle = strings.TrimSpace(handle)
	email = strings.TrimSpace(email)

	if username == "" || handle == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: all fields are required", common.ErrorInvalidArgument)
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	checks := []struct {
		find func(context.Context, string) (*models.User, error)
		arg  string
		msg  string
	}{
		{repo.FindByUsername, username, "username is already taken"},
		{repo.FindByHandle, handle, "handle is already taken"},
		{repo.FindByEmail, email, "email is already registered"},
	}
	for _, c := range checks {
		_, err := c.find(ctx, c.arg)
		if err == nil {
			return nil, fmt.Errorf("%w: %s", common.ErrorDuplicate, c.msg)
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInternal
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{
		Username:     username,
		Handle:       handle,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			return nil, fmt.Errorf("%w: username, handle or email is already taken", common.ErrorDuplicate)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login verifies the password for the account matching handleOrEmail and, on
// success, opens a session and returns its token. Unknown identifiers and
// wrong passwords are indistinguishable to the caller. The source key
// (normally the client address) is charged one attempt whether or not the
// login succeeds.
func (s *UserService) Login(ctx context.Context, source, handleOrEmail, password string) (string, *models.User, error) {
	if !s.limiter.Allow(source) {
		return "", nil, common.ErrorRateLimited
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByHandleOrEmail(ctx, strings.TrimSpace(handleOrEmail))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return "", nil, common.ErrorInvalidCredentials
		}
		return "", nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, common.ErrorInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, sessions.Snapshot{
		UserID:   user.ID,
		Handle:   user.Handle,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
	})
	if err != nil {
		return "", nil, common.ErrorInternal
	}
	return token, user, nil
}

// Logout destroys the session. Unknown tokens are a no-op.
func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// GetByHandle returns the public account matching handle.
func (s *UserService) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	return s.repomanager.Users(s.db).FindByHandle(ctx, handle)
}

// IsAdmin reports whether the account behind handle holds the admin flag
// right now. Admin checks deliberately consult the credential store instead
// of the login-time session snapshot, so a revoked flag takes effect
// immediately.
func (s *UserService) IsAdmin(ctx context.Context, handle string) (bool, error) {
	user, err := s.repomanager.Users(s.db).FindByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin, nil
}

// UpdateProfile applies a partial profile edit for the account behind handle.
func (s *UserService) UpdateProfile(ctx context.Context, handle string, update users.ProfileUpdate) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if err := repo.UpdateProfile(ctx, user.ID, update); err != nil {
		return nil, err
	}
	return repo.FindByHandle(ctx, handle)
}

// ListUsers returns all registered accounts.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).ListAll(ctx)
}

// ForgotPassword issues a single-use reset token for the account behind
// email and mails a reset link. ErrorNotFound is returned for unknown
// addresses.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	token, err := common.MakeRandHexString(resetTokenBytes)
	if err != nil {
		return common.ErrorInternal
	}

	if err := repo.SetResetToken(ctx, user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return common.ErrorInternal
	}

	link := fmt.Sprintf("%s/reset-password.html?token=%s",
		strings.TrimRight(s.config.PublicBaseURL, "/"), token)

	msg := mail.Message{
		To:      user.Email,
		Subject: "Password Reset Request",
		HTML: fmt.Sprintf(
			`<p>Hi %s,</p><p>You requested a password reset. Click the link below to set a new password. The link expires in one hour.</p><p><a href="%s">Reset your password</a></p><p>If you did not request this, you can ignore this e-mail.</p>`,
			user.Username, link),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorMailDelivery, err)
	}
	return nil
}

// ResetPassword consumes a reset token: the new password is stored and the
// token cleared in one transaction, so a token can never be replayed after a
// successful reset. Expired or unknown tokens yield ErrorResetTokenInvalid.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorResetTokenInvalid
		}
		return common.ErrorInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Users(tx)
		if err := repoTx.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
			return err
		}
		return repoTx.ClearResetToken(ctx, user.ID)
	})
}

// EnsureAdmin creates the account if it does not exist yet and grants it the
// admin flag. It returns the account and whether it was newly created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, handle, email, password string) (*models.User, bool, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByHandle(ctx, handle)
	if err == nil {
		if !user.IsAdmin {
			if err := repo.SetAdmin(ctx, user.ID, true); err != nil {
				return nil, false, err
			}
			user.IsAdmin = true
		}
		return user, false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, false, err
	}

	user, err = s.Signup(ctx, username, handle, email, password)
	if err != nil {
		return nil, false, err
	}
	if err := repo.SetAdmin(ctx, user.ID, true); err != nil {
		return nil, false, err
	}
	user.IsAdmin = true
	return user, true, nil
}
