package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mzunohkaru/postboard/internal/logging"
)

// NewRouter constructs the HTTP handler that serves the Postboard API.
//
// Routes:
//
//	POST /api/auth/register
//	POST /api/auth/login
//	POST /api/auth/logout
//	POST /api/auth/refresh
//	GET  /api/auth/me       (guarded)
//	PUT  /api/account       (guarded)
//	GET  /api/posts         (guarded)
//	POST /api/posts         (guarded)
//
// Middleware chain: request id, request logging, JSON content-type
// enforcement on requests with a body.
func NewRouter(h *Handler, logger logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(WithRequestID)
	r.Use(WithRequestLogging(logger))
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Route("/api", func(r chi.Router) {
		// Public endpoints. The refresh endpoint authenticates via the
		// httpOnly cookie, not the bearer header, so it stays outside the guard.
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)
		r.Post("/auth/refresh", h.Refresh)

		// Protected group: requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Get("/auth/me", h.Me)
			r.Put("/account", h.UpdateAccount)
			r.Get("/posts", h.ListPosts)
			r.Post("/posts", h.CreatePost)
		})
	})

	return r
}
