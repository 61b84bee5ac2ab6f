package services

import (
	"context"

	"github.com/mzunohkaru/postboard/internal/common"
	"github.com/mzunohkaru/postboard/internal/server/models"
	"github.com/mzunohkaru/postboard/internal/server/repositories/posts"
)

// PostService lists and creates bulletin-board posts. The author is always
// the authenticated user resolved by the auth guard, never a client-supplied id.
type PostService struct {
	posts posts.Repository
}

func NewPostService(repo posts.Repository) *PostService {
	return &PostService{posts: repo}
}

func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	result, err := s.posts.List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

func (s *PostService) Create(ctx context.Context, title, content string, userID int64) (*models.Post, error) {
	if title == "" || content == "" {
		return nil, common.ErrValidation
	}
	post, err := s.posts.Create(ctx, title, content, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return post, nil
}
