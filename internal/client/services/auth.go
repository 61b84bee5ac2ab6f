// Package services contains application services for the Postboard client.
// This file defines the authentication service: session bootstrap on startup,
// login, register, logout, and account updates, all on top of the API client
// and the session store.
package services

import (
	"context"

	"github.com/mzunohkaru/postboard/internal/client/api"
	"github.com/mzunohkaru/postboard/internal/client/models"
	"github.com/mzunohkaru/postboard/internal/client/session"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - InitAuth: restore a persisted session and validate it against the
//     server. It never fails the startup; whatever happens, the session is
//     marked ready when it returns.
//   - Login/Register: authenticate or create an account and populate the
//     session on success.
//   - Logout: clear the session locally and best-effort revoke the refresh
//     cookie on the server.
//   - UpdateAccount: change username/email of the current user.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	InitAuth(ctx context.Context)
	Login(ctx context.Context, login string, password []byte) (*models.User, error)
	Register(ctx context.Context, username, email string, password []byte) (*models.User, error)
	Logout(ctx context.Context) error
	UpdateAccount(ctx context.Context, username, email string) (*models.User, error)
}

// authService is the concrete AuthService backed by the API client and the
// shared session store.
type authService struct {
	client  *api.Client
	session *session.Store
}

// NewAuthService constructs an AuthService bound to the given API client and
// session store.
func NewAuthService(client *api.Client, store *session.Store) AuthService {
	return &authService{client: client, session: store}
}

// InitAuth runs once at startup. It restores the persisted session, then
// proves it against the server: with a stored token it fetches the current
// user (the client transparently refreshes on a stale token); without one it
// attempts a cookie refresh first. Any failure degrades to a signed-out
// session instead of an error, and the ready flag is always set on return.
func (a *authService) InitAuth(ctx context.Context) {
	defer a.session.SetAuthReady(true)

	if err := a.session.Restore(ctx); err != nil {
		_ = a.session.ClearAuth(ctx)
		return
	}

	if a.session.Token() == "" {
		if token := a.client.Refresh(ctx); token == "" {
			return
		}
	}

	user, err := a.client.FetchMe(ctx)
	if err != nil {
		_ = a.session.ClearAuth(ctx)
		return
	}
	_ = a.session.SetUser(ctx, user)
}

// Login authenticates with a username or email and stores the resulting
// session state.
func (a *authService) Login(ctx context.Context, login string, password []byte) (*models.User, error) {
	user, token, err := a.client.Login(ctx, login, string(password))
	if err != nil {
		return nil, err
	}
	if err := a.session.SetToken(ctx, token); err != nil {
		return nil, err
	}
	if err := a.session.SetUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates an account and signs the new user in.
func (a *authService) Register(ctx context.Context, username, email string, password []byte) (*models.User, error) {
	user, token, err := a.client.Register(ctx, username, email, string(password))
	if err != nil {
		return nil, err
	}
	if err := a.session.SetToken(ctx, token); err != nil {
		return nil, err
	}
	if err := a.session.SetUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout clears the local session first so the user is signed out even when
// the server is unreachable, then asks the server to drop the refresh cookie.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.session.ClearAuth(ctx); err != nil {
		return err
	}
	_ = a.client.Logout(ctx)
	return nil
}

// UpdateAccount changes the current user's username and email and refreshes
// the cached user on success.
func (a *authService) UpdateAccount(ctx context.Context, username, email string) (*models.User, error) {
	user, err := a.client.UpdateAccount(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if err := a.session.SetUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
