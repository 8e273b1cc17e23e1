package dto

import (
	"time"

	authDomain "github.com/allisson/emoticare/internal/auth/domain"
	"github.com/allisson/emoticare/internal/user/domain"
)

// UserResponse represents an account in API responses (excludes the password hash).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// MapUserToResponse converts a domain user to an API response.
func MapUserToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// TokenResponse is returned by login and refresh. RefreshToken is omitted on refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`            //nolint:gosec // returned to the owner
	RefreshToken string `json:"refresh_token,omitempty"` //nolint:gosec // returned to the owner
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// MapTokenPairToResponse converts a token pair to an API response.
func MapTokenPairToResponse(pair *authDomain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
	}
}
