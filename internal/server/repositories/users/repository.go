package users

import (
	"context"

	"github.com/mzunohkaru/postboard/internal/server/models"
)

// Repository is the user-record store consumed by the auth layer. Lookups are
// keyed by numeric id or by username/email.
type Repository interface {
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByLoginOrEmail(ctx context.Context, login string) (*models.User, error)
	Update(ctx context.Context, id int64, username, email string) (*models.User, error)
}
