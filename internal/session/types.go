package session

import "time"

// Claims are the verified contents of a session token
type Claims struct {
	UserID    string
	IsGuest   bool
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// UserData represents the user information returned for a session
type UserData struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsGuest bool   `json:"is_guest"`
}
