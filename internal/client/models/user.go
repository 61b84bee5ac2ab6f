// Package models defines the client-side views of API resources.
package models

// User is the non-secret account projection returned by the server.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
