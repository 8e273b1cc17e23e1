// Package domain defines credential and principal types used for authentication.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// Principal is the identity resolved from a verified access token.
type Principal struct {
	UserID    uuid.UUID
	ExpiresAt time.Time
}
