package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/allisson/emoticare/internal/conversation/domain"
)

// CreateConversationResponse is returned by POST /v1/conversations.
type CreateConversationResponse struct {
	ConversationID string `json:"conversation_id"`
}

// ConversationResponse is one entry of GET /v1/conversations.
type ConversationResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// MapConversationsToResponse converts domain conversations to API responses.
func MapConversationsToResponse(conversations []*domain.Conversation) []ConversationResponse {
	return lo.Map(conversations, func(c *domain.Conversation, _ int) ConversationResponse {
		return ConversationResponse{ID: c.ID.String(), CreatedAt: c.CreatedAt}
	})
}

// MessageResponse is one entry of GET /v1/conversations/:id/messages.
type MessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// MapMessagesToResponse converts decrypted messages to API responses.
func MapMessagesToResponse(messages []*domain.DecryptedMessage) []MessageResponse {
	return lo.Map(messages, func(m *domain.DecryptedMessage, _ int) MessageResponse {
		return MessageResponse{
			Role:      string(m.Role),
			Content:   m.Content,
			Language:  m.Language,
			CreatedAt: m.CreatedAt,
		}
	})
}

// ChatResponse is returned by POST /v1/chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// DeleteDataResponse is returned by DELETE /v1/privacy/delete-my-data.
type DeleteDataResponse struct {
	Message              string `json:"message"`
	ConversationsDeleted int64  `json:"conversations_deleted"`
}
