// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, account updates, and
// issuing/refreshing the two JWT classes.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/mzunohkaru/postboard/internal/common"
	"github.com/mzunohkaru/postboard/internal/server/auth"
	"github.com/mzunohkaru/postboard/internal/server/models"
	"github.com/mzunohkaru/postboard/internal/server/repositories/users"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
//   - Register: validate input, create the user, mint both tokens
//   - Login: verify credentials and mint both tokens
//   - Refresh: mint a new access token from a valid refresh token
//   - CurrentUser / UpdateAccount: profile lookup and update
type UserService struct {
	users  users.Repository
	tokens *auth.TokenService
}

// NewUserService constructs a UserService over the user store and token service.
func NewUserService(repo users.Repository, tokens *auth.TokenService) *UserService {
	return &UserService{users: repo, tokens: tokens}
}

// Register validates the credentials, stores the user with a salted password
// hash, and returns the created user together with a fresh token pair.
// Duplicate username/email surface as the field-specific sentinels.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, *TokenPair, error) {
	if username == "" || email == "" || password == "" {
		return nil, nil, common.ErrMissingCredentials
	}
	if len(username) < 3 || len(username) > 50 {
		return nil, nil, fmt.Errorf("%w: username must be between 3 and 50 characters", common.ErrValidation)
	}
	if !emailRegexp.MatchString(email) {
		return nil, nil, fmt.Errorf("%w: invalid email address", common.ErrValidation)
	}
	if len(password) < 6 {
		return nil, nil, fmt.Errorf("%w: password must be at least 6 characters", common.ErrValidation)
	}

	user, err := s.users.Create(ctx, username, email, auth.HashPassword(password))
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.generateTokenPair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login verifies the password against the stored hash and, on success,
// returns the user and a new token pair. A missing user and a wrong password
// both yield common.ErrorUnauthorized, so the two are indistinguishable to
// the caller.
func (s *UserService) Login(ctx context.Context, login, password string) (*models.User, *TokenPair, error) {
	if login == "" || password == "" {
		return nil, nil, common.ErrMissingCredentials
	}

	user, err := s.users.GetByLoginOrEmail(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh validates a refresh token, confirms the user still exists, and
// mints a new access token. The refresh token itself is not rotated.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrUserNotFound
		}
		return "", common.ErrorInternal
	}

	return s.tokens.IssueAccess(userID)
}

// CurrentUser resolves the user record behind a verified token's user id.
func (s *UserService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// UpdateAccount changes the user's username and email.
func (s *UserService) UpdateAccount(ctx context.Context, userID int64, username, email string) (*models.User, error) {
	if len(username) < 3 || len(username) > 50 {
		return nil, fmt.Errorf("%w: username must be between 3 and 50 characters", common.ErrValidation)
	}
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email address", common.ErrValidation)
	}

	user, err := s.users.Update(ctx, userID, username, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) generateTokenPair(userID int64) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
