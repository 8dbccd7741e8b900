package model

import "time"

// Snippet represents a saved code snippet owned by a single user.
//
// UserID is always stamped from the authenticated identity by the service
// layer — never taken from the request body. Snippets have no update
// operation: they are created, listed, and deleted.
type Snippet struct {
	ID          string    `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"`
	Description string    `json:"description" db:"description"`
	Code        string    `json:"code"        db:"code"`
	Tags        []string  `json:"tags"        db:"tags"`
	UserID      string    `json:"userId"      db:"user_id"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}
