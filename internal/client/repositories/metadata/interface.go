package metadata

import (
	"context"
)

// Repository is a small key/value store for locally persisted session data
// (the access token and the cached user profile).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
