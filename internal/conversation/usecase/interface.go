// Package usecase implements conversation management and encrypted message persistence.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/emoticare/internal/conversation/domain"
)

// ConversationRepository defines persistence operations for conversations.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *domain.Conversation) error
	// GetByID returns ErrConversationNotFound when the row does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	// ListByUser returns the user's conversations newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Conversation, error)
	// DeleteByUser removes every conversation owned by userID and returns how many were removed.
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// MessageRepository defines persistence operations for encrypted messages.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	// ListByConversation returns messages oldest first.
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]*domain.Message, error)
	// DeleteByUser removes every message in conversations owned by userID.
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// DeleteOlderThan removes messages created before olderThan. With dryRun they are only counted.
	DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}

// ChatInput is a single non-streaming turn.
type ChatInput struct {
	UserID         uuid.UUID
	ConversationID uuid.UUID
	Text           string
	Language       string
}

// ConversationUseCase defines conversation operations.
type ConversationUseCase interface {
	// Create starts a conversation owned by userID.
	Create(ctx context.Context, userID uuid.UUID) (*domain.Conversation, error)

	// List returns the user's conversations newest first.
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Conversation, error)

	// GetByID looks a conversation up without checking ownership.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)

	// GetOwned returns the conversation only when userID owns it. Missing and foreign
	// conversations both return ErrConversationNotFound.
	GetOwned(ctx context.Context, userID, id uuid.UUID) (*domain.Conversation, error)

	// AppendMessage encrypts text and stores it. Empty text returns ErrEmptyMessage and
	// stores nothing.
	AppendMessage(
		ctx context.Context,
		conversationID uuid.UUID,
		role domain.Role,
		language, text string,
	) (*domain.Message, error)

	// History returns the conversation's messages oldest first, decrypted. Messages that
	// cannot be opened carry the failure sentinel.
	History(ctx context.Context, userID, conversationID uuid.UUID) ([]*domain.DecryptedMessage, error)

	// Chat stores the user message, obtains one reply and stores it.
	Chat(ctx context.Context, input ChatInput) (string, error)

	// DeleteAllForUser removes every conversation and message of userID in one transaction and
	// records DELETE_DATA. Audit records are kept.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID, sourceAddress string) (int64, error)

	// DeleteExpiredMessages removes messages older than days. With dryRun they are only counted.
	DeleteExpiredMessages(ctx context.Context, days int, dryRun bool) (int64, error)
}
