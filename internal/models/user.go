package models

import "time"

// User represents a registered account. An empty VerificationToken or Token
// maps to NULL in the store.
type User struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"` // Never expose this to the client
	AvatarURL         string    `json:"avatarURL,omitempty"`
	Subscription      string    `json:"subscription"`
	VerificationToken string    `json:"-"`
	Verified          bool      `json:"verified"`
	Token             string    `json:"-"` // Current session token; cleared on logout
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
