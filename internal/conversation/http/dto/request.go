// Package dto provides request and response types for the conversation endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/emoticare/internal/validation"
)

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	ConversationID string `json:"conversation_id"`
	MessageText    string `json:"message_text"`
	Language       string `json:"language"`
}

// Validate checks the conversation id, the message text and the optional language tag.
func (r *ChatRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.ConversationID,
			validation.Required.Error("conversation_id is required"),
			appValidation.UUID,
		),
		validation.Field(&r.MessageText,
			validation.Required.Error("message_text is required"),
			validation.Length(1, 8000).Error("message_text must be at most 8000 characters"),
		),
		validation.Field(&r.Language, appValidation.LanguageTag),
	)
	return appValidation.WrapValidationError(err)
}
