// Package domain defines conversations and their encrypted messages.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/emoticare/internal/crypto/domain"
	"github.com/allisson/emoticare/internal/errors"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation groups the messages exchanged by one principal. Ownership never changes.
type Conversation struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}

// OwnedBy reports whether userID owns the conversation.
func (c *Conversation) OwnedBy(userID uuid.UUID) bool {
	return c != nil && c.UserID == userID
}

// Message is one encrypted turn. Messages are append-only.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	Role           Role
	Language       string
	Envelope       cryptoDomain.Envelope
	CreatedAt      time.Time
}

// DecryptedMessage is a Message opened for display. Content holds the failure sentinel
// when the envelope could not be opened.
type DecryptedMessage struct {
	Role      Role
	Content   string
	Language  string
	CreatedAt time.Time
	Decrypted bool
}

// Conversation errors.
var (
	// ErrConversationNotFound indicates the conversation does not exist or belongs to someone else.
	ErrConversationNotFound = errors.Wrap(errors.ErrNotFound, "conversation not found")

	// ErrEmptyMessage indicates a message with no text was submitted.
	ErrEmptyMessage = errors.Wrap(errors.ErrInvalidInput, "message text is required")
)
