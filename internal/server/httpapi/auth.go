// Package httpapi provides HTTP handlers, middleware and routing for the
// Postboard REST API.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mzunohkaru/postboard/internal/common"
	"github.com/mzunohkaru/postboard/internal/logging"
	"github.com/mzunohkaru/postboard/internal/server/auth"
	"github.com/mzunohkaru/postboard/internal/server/models"
	"github.com/mzunohkaru/postboard/internal/server/services"
)

// Handler bundles the services and settings the endpoints need.
type Handler struct {
	users      *services.UserService
	posts      *services.PostService
	tokens     *auth.TokenService
	logger     logging.Logger
	refreshTTL time.Duration
	production bool
}

func NewHandler(users *services.UserService, posts *services.PostService, tokens *auth.TokenService,
	logger logging.Logger, refreshTTL time.Duration, production bool) *Handler {
	return &Handler{
		users:      users,
		posts:      posts,
		tokens:     tokens,
		logger:     logger.With("module", "httpapi"),
		refreshTTL: refreshTTL,
		production: production,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authPayload struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

// Register handles POST /api/auth/register: validates the credentials,
// creates the user, sets the refresh cookie, and returns the user together
// with an access token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrMissingCredentials)
		return
	}

	user, pair, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusCreated, response{
		Success: true,
		Data:    authPayload{User: user.Public(), AccessToken: pair.AccessToken},
		Message: "registration successful",
	})
}

// Login handles POST /api/auth/login. The username field accepts a username
// or an email address. Bad credentials always produce the same generic 401,
// and no cookie is set on failure.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrMissingCredentials)
		return
	}

	user, pair, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    authPayload{User: user.Public(), AccessToken: pair.AccessToken},
		Message: "login successful",
	})
}

// Logout handles POST /api/auth/logout: clears the refresh cookie
// unconditionally. Always succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, response{Success: true, Message: "logged out"})
}

// Refresh handles POST /api/auth/refresh: it reads the refresh token from the
// httpOnly cookie (the client never holds it), verifies it, confirms the user
// still exists, and returns a fresh access token. The refresh token is not
// rotated.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(common.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, common.ErrMissingToken)
		return
	}

	accessToken, err := h.users.Refresh(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, AccessToken: accessToken})
}

// Me handles GET /api/auth/me: returns the user resolved by the auth guard.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, response{Success: true, Data: map[string]*models.User{"user": user}})
}
