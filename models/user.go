package models

import "time"

// User is an account provisioned on first OAuth login, keyed by verified email.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
