// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// PasswordHash carries the bcrypt hash and is tagged `json:"-"` so it can
// never leak into an API response, no matter which handler serializes the
// struct. Handlers that need a client-safe view use Public().
//
// ResetOTP and ResetOTPExpires are only populated during a password reset
// and are cleared as soon as the reset completes (or a new code replaces
// them). Both are pointers so "no code issued" is representable as nil
// rather than a magic zero value.
type User struct {
	ID              string     `json:"id"        db:"id"`
	Name            string     `json:"name"      db:"name"`
	Email           string     `json:"email"     db:"email"`
	PasswordHash    string     `json:"-"         db:"password_hash"`
	ResetOTP        *string    `json:"-"         db:"reset_otp"`
	ResetOTPExpires *time.Time `json:"-"         db:"reset_otp_expires"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// PublicUser is the profile shape returned to clients.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the client-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
