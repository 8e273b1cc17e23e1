// Package stream implements the authenticated websocket protocol that joins clients to
// conversation rooms and streams assistant replies to every member in order.
package stream

import (
	"encoding/json"
)

// Event names carried in the "event" field of every frame.
const (
	EventJoinSession    = "join_session"
	EventSessionJoined  = "session_joined"
	EventUserMessage    = "user_message"
	EventAssistantToken = "assistant_token"
	EventAssistantDone  = "assistant_done"
	EventError          = "error"
)

// Error messages sent to clients. They never reveal why authorization failed.
const (
	ErrMessageUnauthorized   = "unauthorized"
	ErrMessageInternal       = "internal error"
	ErrMessageInvalidPayload = "invalid payload"
	ErrMessageRateLimited    = "rate limit exceeded"
)

// Frame is the JSON text frame exchanged in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// JoinSessionPayload is sent by clients to bind the connection to a conversation room.
type JoinSessionPayload struct {
	Token          string `json:"token"`
	ConversationID string `json:"conversation_id"`
}

// UserMessagePayload is sent by clients to submit a message. Language is optional.
type UserMessagePayload struct {
	Token          string `json:"token"`
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
	Language       string `json:"language,omitempty"`
}

// SessionJoinedPayload confirms a join.
type SessionJoinedPayload struct {
	Status         string `json:"status"`
	ConversationID string `json:"conversation_id"`
}

// AssistantTokenPayload carries one reply fragment.
type AssistantTokenPayload struct {
	Chunk          string `json:"chunk"`
	ConversationID string `json:"conversation_id"`
}

// AssistantDonePayload marks the end of a persisted reply.
type AssistantDonePayload struct {
	ConversationID string `json:"conversation_id"`
}

// ErrorPayload reports a failure to the connection that caused it.
type ErrorPayload struct {
	Message string `json:"message"`
}

// EncodeFrame marshals an outbound frame.
func EncodeFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}
