package models

import "time"

// User is an account holder. Every Category and Transaction belongs to
// exactly one User.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // don't expose hash
	CreatedAt    time.Time `json:"created_at"`
}

// Session is the server-side record backing an issued token. Deleting the
// row invalidates the token even before its expiry.
type Session struct {
	ID        string    `json:"id"` // UUID, also the JWT ID claim
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
