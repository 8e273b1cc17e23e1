// Package service provides credential primitives: signed tokens and password hashes.
package service

import (
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/emoticare/internal/auth/domain"
)

// PasswordService hashes and verifies user passwords.
type PasswordService interface {
	// Hash returns an encoded Argon2id hash of password.
	Hash(password string) (string, error)

	// Compare reports whether password matches hash. Comparison is constant-time.
	Compare(password, hash string) bool
}

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	// IssuePair creates an access token and a refresh token for userID.
	IssuePair(userID uuid.UUID) (*authDomain.TokenPair, error)

	// IssueAccess creates only an access token, used when refreshing.
	IssueAccess(userID uuid.UUID) (string, error)

	// Verify checks signature, issuer, expiry and token type and returns the principal.
	// Every failure is reported as ErrInvalidToken.
	Verify(token string, expected authDomain.TokenType) (*authDomain.Principal, error)

	// AccessTTL returns the lifetime of access tokens.
	AccessTTL() time.Duration
}
