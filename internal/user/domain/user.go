// Package domain defines the user account entity.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/emoticare/internal/errors"
)

// User is an account that owns conversations. Password holds an Argon2id hash.
type User struct {
	ID        uuid.UUID
	Email     string
	Password  string
	CreatedAt time.Time
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")
)
