package posts

import (
	"context"

	"github.com/mzunohkaru/postboard/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Post, error)
	Create(ctx context.Context, title, content string, userID int64) (*models.Post, error)
}
