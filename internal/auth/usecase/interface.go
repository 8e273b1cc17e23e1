// Package usecase implements the session gate that guards every conversation operation.
package usecase

import (
	"context"

	"github.com/google/uuid"

	conversationDomain "github.com/allisson/emoticare/internal/conversation/domain"
)

// ConversationLookup resolves a conversation by ID.
type ConversationLookup interface {
	// GetByID returns the conversation or an error wrapping ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*conversationDomain.Conversation, error)
}

// SessionGate authenticates bearer tokens and authorizes conversation access.
// It holds no state; callers invoke it for every join and every submitted message.
type SessionGate interface {
	// Authenticate verifies an access token and returns the principal's user ID.
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)

	// AuthorizeJoin returns the conversation when principal owns it. A missing conversation
	// and one owned by someone else both yield ErrConversationAccessDenied.
	AuthorizeJoin(ctx context.Context, principal, conversationID uuid.UUID) (*conversationDomain.Conversation, error)
}
