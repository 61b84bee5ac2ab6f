package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mzunohkaru/postboard/internal/common"
)

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ListPosts handles GET /api/posts: all posts, newest first.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	result, err := h.posts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Data: result})
}

// CreatePost handles POST /api/posts. The author is the authenticated user
// from the request context.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrValidation)
		return
	}

	user := UserFromContext(r.Context())
	post, err := h.posts.Create(r.Context(), req.Title, req.Content, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Success: true, Data: post})
}
