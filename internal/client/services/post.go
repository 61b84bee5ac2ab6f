package services

import (
	"context"

	"github.com/mzunohkaru/postboard/internal/client/api"
	"github.com/mzunohkaru/postboard/internal/client/models"
)

// PostService exposes the board operations used by the CLI.
type PostService interface {
	List(ctx context.Context) ([]*models.Post, error)
	Create(ctx context.Context, title, content string) (*models.Post, error)
}

type postService struct {
	client *api.Client
}

func NewPostService(client *api.Client) PostService {
	return &postService{client: client}
}

func (p *postService) List(ctx context.Context) ([]*models.Post, error) {
	return p.client.ListPosts(ctx)
}

func (p *postService) Create(ctx context.Context, title, content string) (*models.Post, error) {
	return p.client.CreatePost(ctx, title, content)
}
