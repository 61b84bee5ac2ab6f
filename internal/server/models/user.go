package models

import "time"

// User is the persisted account record. PasswordHash never leaves the server:
// it is excluded from JSON and from the context value the auth guard attaches.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

// Public returns the non-secret projection exposed to clients.
func (u *User) Public() *User {
	return &User{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}
