package entities

import "time"

type AdminUser struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is an issued admin bearer token.
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}
