package domain

import (
	"github.com/allisson/emoticare/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrInvalidToken indicates a malformed, expired, badly signed or wrong-type token.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrConversationAccessDenied is returned both when a conversation does not exist and
	// when it belongs to another principal, so callers cannot tell the two apart.
	ErrConversationAccessDenied = errors.Wrap(errors.ErrUnauthorized, "conversation access denied")
)
