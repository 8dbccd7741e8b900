// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage provides the concrete implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"
	"time"

	"github.com/sakif/codescribe/internal/model"
)

// UserRepository persists user accounts and their password-reset state.
//
// Method names are qualified (CreateUser, not Create) because one concrete
// type implements every repository interface in this file; the snippet
// methods keep the short names.
type UserRepository interface {
	// CreateUser inserts a new user. Returns apperror.ErrConflict if the
	// email is already registered.
	CreateUser(ctx context.Context, user *model.User) error

	// GetUserByEmail returns the user with the given email, including the
	// password hash and any reset-code fields.
	// Returns apperror.ErrNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// GetUserByID returns the user with the given ID.
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	// SetResetCode stores a one-time reset code and its expiry for the user.
	SetResetCode(ctx context.Context, userID, code string, expires time.Time) error

	// UpdatePasswordAndClearResetCode replaces the password hash and wipes
	// the reset-code fields in a single statement.
	UpdatePasswordAndClearResetCode(ctx context.Context, userID, passwordHash string) error
}

// SnippetRepository persists code snippets.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error

	// GetByID returns a snippet regardless of owner. Ownership is checked
	// by the service so a foreign owner can be distinguished from absence.
	GetByID(ctx context.Context, id string) (*model.Snippet, error)

	// ListByUser returns every snippet owned by userID; order unspecified.
	ListByUser(ctx context.Context, userID string) ([]model.Snippet, error)

	Delete(ctx context.Context, id string) error
}

// EnvVariableRepository persists per-user environment variables. Every
// operation that touches existing rows is scoped to the owning user in the
// query itself.
type EnvVariableRepository interface {
	CreateEnvVariable(ctx context.Context, v *model.EnvVariable) error

	ListEnvVariablesByUser(ctx context.Context, userID string) ([]model.EnvVariable, error)

	// UpdateEnvVariableValue overwrites the value of the variable with the
	// given ID if it is owned by userID. Returns the updated record, or
	// apperror.ErrNotFound if no owned row matched.
	UpdateEnvVariableValue(ctx context.Context, userID, id, value string) (*model.EnvVariable, error)

	// DeleteEnvVariableByName removes the oldest variable named name owned by
	// userID. Returns apperror.ErrNotFound if nothing matched.
	DeleteEnvVariableByName(ctx context.Context, userID, name string) error
}

// DocumentationRepository records generation runs. Write-once: there is no
// read path in the API.
type DocumentationRepository interface {
	CreateDocumentation(ctx context.Context, doc *model.Documentation) error
}
