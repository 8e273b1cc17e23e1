package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/emoticare/internal/auth/domain"
	authService "github.com/allisson/emoticare/internal/auth/service"
	conversationDomain "github.com/allisson/emoticare/internal/conversation/domain"
	apperrors "github.com/allisson/emoticare/internal/errors"
)

type sessionGate struct {
	tokens        authService.TokenService
	conversations ConversationLookup
}

// Authenticate verifies an access token. Refresh tokens are rejected.
func (g *sessionGate) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	principal, err := g.tokens.Verify(token, authDomain.AccessToken)
	if err != nil {
		return uuid.Nil, err
	}
	return principal.UserID, nil
}

// AuthorizeJoin checks that principal owns conversationID.
func (g *sessionGate) AuthorizeJoin(
	ctx context.Context,
	principal, conversationID uuid.UUID,
) (*conversationDomain.Conversation, error) {
	conversation, err := g.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.ErrConversationAccessDenied
		}
		return nil, apperrors.Wrap(err, "failed to load conversation")
	}

	if !conversation.OwnedBy(principal) {
		return nil, authDomain.ErrConversationAccessDenied
	}
	return conversation, nil
}

// NewSessionGate creates a SessionGate.
func NewSessionGate(tokens authService.TokenService, conversations ConversationLookup) SessionGate {
	return &sessionGate{tokens: tokens, conversations: conversations}
}
