// Package usecase implements account registration and credential exchange.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/emoticare/internal/auth/domain"
	"github.com/allisson/emoticare/internal/user/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create stores a new user. Duplicate emails return ErrUserAlreadyExists.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RegisterInput holds registration data plus the caller address for the audit trail.
type RegisterInput struct {
	Email         string
	Password      string
	SourceAddress string
}

// LoginInput holds login credentials plus the caller address for the audit trail.
type LoginInput struct {
	Email         string
	Password      string
	SourceAddress string
}

// UserUseCase defines account operations.
type UserUseCase interface {
	// Register creates an account with a hashed password and records REGISTER.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Login verifies credentials and returns an access/refresh token pair. Unknown email and wrong
	// password both return ErrInvalidCredentials and record LOGIN_FAILED.
	Login(ctx context.Context, input LoginInput) (*authDomain.TokenPair, error)

	// Refresh exchanges a valid refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error)

	// Get returns the account of the given user.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
