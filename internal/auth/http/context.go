// Package http provides the gin middleware that authenticates bearer tokens and rate limits callers.
package http

import (
	"context"

	"github.com/google/uuid"
)

// principalKey is a context key type for storing the authenticated user ID.
type principalKey struct{}

// WithPrincipal stores the authenticated user ID in the context.
func WithPrincipal(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, principalKey{}, userID)
}

// GetPrincipal retrieves the authenticated user ID from the context.
func GetPrincipal(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(principalKey{}).(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}
