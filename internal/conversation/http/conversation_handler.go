// Package http provides the gin handlers for conversations, non-streaming chat and privacy deletion.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/emoticare/internal/auth/http"
	"github.com/allisson/emoticare/internal/conversation/http/dto"
	"github.com/allisson/emoticare/internal/conversation/usecase"
	apperrors "github.com/allisson/emoticare/internal/errors"
	"github.com/allisson/emoticare/internal/httputil"
)

// ConversationHandler handles conversation and privacy requests. Every route requires
// AuthenticationMiddleware.
type ConversationHandler struct {
	conversationUseCase usecase.ConversationUseCase
	logger              *slog.Logger
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(conversationUseCase usecase.ConversationUseCase, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{
		conversationUseCase: conversationUseCase,
		logger:              logger,
	}
}

func (h *ConversationHandler) principal(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
	}
	return userID, ok
}

// CreateHandler starts a conversation.
// POST /v1/conversations - Returns 201 Created with the conversation id.
func (h *ConversationHandler) CreateHandler(c *gin.Context) {
	userID, ok := h.principal(c)
	if !ok {
		return
	}

	conversation, err := h.conversationUseCase.Create(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateConversationResponse{ConversationID: conversation.ID.String()})
}

// ListHandler lists the caller's conversations newest first.
// GET /v1/conversations?offset=0&limit=50
func (h *ConversationHandler) ListHandler(c *gin.Context) {
	userID, ok := h.principal(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	conversations, err := h.conversationUseCase.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapConversationsToResponse(conversations))
}

// MessagesHandler returns the decrypted history of one conversation.
// GET /v1/conversations/:id/messages - Returns 404 for conversations the caller does not own.
func (h *ConversationHandler) MessagesHandler(c *gin.Context) {
	userID, ok := h.principal(c)
	if !ok {
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid conversation ID format: must be a valid UUID"),
			h.logger)
		return
	}

	history, err := h.conversationUseCase.History(c.Request.Context(), userID, conversationID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMessagesToResponse(history))
}

// ChatHandler runs one non-streaming turn.
// POST /v1/chat - Returns 200 OK with the assistant reply.
func (h *ConversationHandler) ChatHandler(c *gin.Context) {
	userID, ok := h.principal(c)
	if !ok {
		return
	}

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	reply, err := h.conversationUseCase.Chat(c.Request.Context(), usecase.ChatInput{
		UserID:         userID,
		ConversationID: uuid.MustParse(req.ConversationID),
		Text:           req.MessageText,
		Language:       req.Language,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ChatResponse{Response: reply})
}

// DeleteMyDataHandler removes every conversation and message of the caller.
// DELETE /v1/privacy/delete-my-data - Audit records are kept.
func (h *ConversationHandler) DeleteMyDataHandler(c *gin.Context) {
	userID, ok := h.principal(c)
	if !ok {
		return
	}

	deleted, err := h.conversationUseCase.DeleteAllForUser(c.Request.Context(), userID, c.ClientIP())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteDataResponse{
		Message:              "All conversation data deleted successfully",
		ConversationsDeleted: deleted,
	})
}
