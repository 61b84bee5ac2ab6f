// Package posts provides a PostgreSQL-backed repository for bulletin-board
// posts.
package posts

import (
	"context"
	"fmt"

	"github.com/mzunohkaru/postboard/internal/dbx"
	"github.com/mzunohkaru/postboard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns all posts, newest first, with the author's username joined in.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Post, error) {
	query := `
		SELECT p.id, p.title, p.content, p.user_id, u.username, p.created_at, p.updated_at
		FROM posts p
		JOIN users u ON p.user_id = u.id
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Post, 0)
	for rows.Next() {
		post := &models.Post{}
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.UserID,
			&post.Username, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, title, content string, userID int64) (*models.Post, error) {
	query := `
		INSERT INTO posts (title, content, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	post := &models.Post{Title: title, Content: content, UserID: userID}
	err := r.db.QueryRowContext(ctx, query, title, content, userID).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}
