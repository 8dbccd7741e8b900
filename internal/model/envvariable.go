package model

import "time"

// EnvVariable is a named value a user keeps for their projects.
//
// Name uniqueness per owner is deliberately NOT enforced. Duplicates are
// allowed, and DeleteByName removes one matching row per call, oldest
// first. Only Value is mutable after creation.
type EnvVariable struct {
	ID        string    `json:"id"        db:"id"`
	Name      string    `json:"name"      db:"name"`
	Value     string    `json:"value"     db:"value"`
	UserID    string    `json:"userId"    db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
