package models

import "time"

// Account is a registered user. Handle is derived from Email once, at
// registration, and is what the public profile is looked up by.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Handle       string    `json:"handle"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
