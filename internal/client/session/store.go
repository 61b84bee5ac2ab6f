// Package session holds the client's process-wide authentication state: the
// current access token, the cached user, and the bootstrap/refresh flags.
// State is mutated only through the Store methods and mirrored into a
// persistent Storage so the session survives restarts.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mzunohkaru/postboard/internal/client/models"
	"github.com/mzunohkaru/postboard/internal/common"
)

// Storage persists the session between runs. Both keys are cleared together
// on logout. Implemented by the metadata repository; tests supply fakes.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Store is the single authentication state of the client. It is injected
// into the API client and the auth service rather than held as a package
// variable, so tests can run against a fresh instance.
type Store struct {
	mu          sync.Mutex
	accessToken string
	user        *models.User
	refreshing  bool
	authReady   bool
	storage     Storage
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Restore loads the persisted access token and cached user, if any. A
// corrupted user record is dropped rather than surfaced.
func (s *Store) Restore(ctx context.Context) error {
	token, err := s.storage.Get(ctx, common.StorageKeyAccessToken)
	if err != nil {
		return err
	}
	raw, err := s.storage.Get(ctx, common.StorageKeyUser)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = string(token)
	if len(raw) > 0 {
		user := &models.User{}
		if err := json.Unmarshal(raw, user); err == nil {
			s.user = user
		}
	}
	return nil
}

// SetToken updates the access token and persists it. An empty token removes
// the persisted value.
func (s *Store) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()

	if token == "" {
		return s.storage.Delete(ctx, common.StorageKeyAccessToken)
	}
	return s.storage.Set(ctx, common.StorageKeyAccessToken, []byte(token))
}

// SetUser updates the cached user and persists it.
func (s *Store) SetUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, common.StorageKeyUser, raw)
}

// ClearAuth resets token and user and purges both persisted keys.
func (s *Store) ClearAuth(ctx context.Context) error {
	s.mu.Lock()
	s.accessToken = ""
	s.user = nil
	s.mu.Unlock()

	return s.storage.Clear(ctx)
}

// SetRefreshing toggles the in-flight-refresh flag.
func (s *Store) SetRefreshing(v bool) {
	s.mu.Lock()
	s.refreshing = v
	s.mu.Unlock()
}

func (s *Store) IsRefreshing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshing
}

// SetAuthReady marks that the initial restore-and-validate bootstrap has
// finished. Consumers must not take navigation decisions before it is true.
func (s *Store) SetAuthReady(v bool) {
	s.mu.Lock()
	s.authReady = v
	s.mu.Unlock()
}

func (s *Store) AuthReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authReady
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// IsAuthenticated is derived from token presence.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken != ""
}
