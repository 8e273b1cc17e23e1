package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authHTTP "github.com/allisson/emoticare/internal/auth/http"
	"github.com/allisson/emoticare/internal/conversation/domain"
	"github.com/allisson/emoticare/internal/conversation/http/dto"
	"github.com/allisson/emoticare/internal/conversation/usecase"
	cryptoDomain "github.com/allisson/emoticare/internal/crypto/domain"
)

type mockConversationUseCase struct {
	mock.Mock
}

func (m *mockConversationUseCase) Create(ctx context.Context, userID uuid.UUID) (*domain.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConversationUseCase) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Conversation, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Conversation), args.Error(1)
}

func (m *mockConversationUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConversationUseCase) GetOwned(ctx context.Context, userID, id uuid.UUID) (*domain.Conversation, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConversationUseCase) AppendMessage(
	ctx context.Context,
	conversationID uuid.UUID,
	role domain.Role,
	language, text string,
) (*domain.Message, error) {
	args := m.Called(ctx, conversationID, role, language, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *mockConversationUseCase) History(
	ctx context.Context,
	userID, conversationID uuid.UUID,
) ([]*domain.DecryptedMessage, error) {
	args := m.Called(ctx, userID, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DecryptedMessage), args.Error(1)
}

func (m *mockConversationUseCase) Chat(ctx context.Context, input usecase.ChatInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *mockConversationUseCase) DeleteAllForUser(
	ctx context.Context,
	userID uuid.UUID,
	sourceAddress string,
) (int64, error) {
	args := m.Called(ctx, userID, sourceAddress)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockConversationUseCase) DeleteExpiredMessages(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

func setupHandler(t *testing.T) (*ConversationHandler, *mockConversationUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	useCase := &mockConversationUseCase{}
	return NewConversationHandler(useCase, slog.New(slog.NewTextHandler(io.Discard, nil))), useCase
}

func authedContext(method, path string, body any, userID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req = req.WithContext(authHTTP.WithPrincipal(req.Context(), userID))
	}
	c.Request = req
	return c, w
}

func TestConversationHandler_CreateHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupHandler(t)
		userID := uuid.Must(uuid.NewV7())
		conversation := &domain.Conversation{ID: uuid.Must(uuid.NewV7()), UserID: userID}
		useCase.On("Create", mock.Anything, userID).Return(conversation, nil).Once()

		c, w := authedContext(http.MethodPost, "/v1/conversations", nil, userID)
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp dto.CreateConversationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, conversation.ID.String(), resp.ConversationID)
	})

	t.Run("Error_Unauthenticated", func(t *testing.T) {
		handler, useCase := setupHandler(t)
		c, w := authedContext(http.MethodPost, "/v1/conversations", nil, uuid.Nil)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		useCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestConversationHandler_ListHandler(t *testing.T) {
	t.Run("Success_Paginated", func(t *testing.T) {
		handler, useCase := setupHandler(t)
		userID := uuid.Must(uuid.NewV7())
		conversations := []*domain.Conversation{{ID: uuid.Must(uuid.NewV7()), UserID: userID, CreatedAt: time.Now()}}
		useCase.On("List", mock.Anything, userID, 10, 5).Return(conversations, nil).Once()

		c, w := authedContext(http.MethodGet, "/v1/conversations?offset=10&limit=5", nil, userID)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp []dto.ConversationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, conversations[0].ID.String(), resp[0].ID)
	})

	t.Run("Error_BadLimit", func(t *testing.T) {
		handler, _ := setupHandler(t)
		c, w := authedContext(http.MethodGet, "/v1/conversations?limit=1000", nil, uuid.Must(uuid.NewV7()))

		handler.ListHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestConversationHandler_MessagesHandler(t *testing.T) {
	t.Run("Success_ShowsSentinel", func(t *testing.T) {
		handler, useCase := setupHandler(t)
		userID := uuid.Must(uuid.NewV7())
		conversationID := uuid.Must(uuid.NewV7())
		history := []*domain.DecryptedMessage{
			{Role: domain.RoleUser, Content: "I am sad", Language: "en", Decrypted: true},
			{Role: domain.RoleAssistant, Content: cryptoDomain.FailureSentinel, Language: "en"},
		}
		useCase.On("History", mock.Anything, userID, conversationID).Return(history, nil).Once()

		c, w := authedContext(http.MethodGet, "/v1/conversations/"+conversationID.String()+"/messages", nil, userID)
		c.Params = gin.Params{{Key: "id", Value: conversationID.String()}}
		handler.MessagesHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp []dto.MessageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.Equal(t, "user", resp[0].Role)
		assert.Equal(t, "[Decryption Failed]", resp[1].Content)
	})

	t.Run("Error_NotOwned", func(t *testing.T) {
		handler, useCase := setupHandler(t)
		userID := uuid.Must(uuid.NewV7())
		conversationID := uuid.Must(uuid.NewV7())
		useCase.On("History", mock.Anything, userID, conversationID).Return(nil, domain.ErrConversationNotFound).Once()

		c, w := authedContext(http.MethodGet, "/", nil, userID)
		c.Params = gin.Params{{Key: "id", Value: conversationID.String()}}
		handler.MessagesHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, _ := setupHandler(t)
		c, w := authedContext(http.MethodGet, "/", nil, uuid.Must(uuid.NewV7()))
		c.Params = gin.Params{{Key: "id", Value: "nope"}}

		handler.MessagesHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestConversationHandler_ChatHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupHandler(t)
		userID := uuid.Must(uuid.NewV7())
		conversationID := uuid.Must(uuid.NewV7())
		useCase.On("Chat", mock.Anything, usecase.ChatInput{
			UserID:         userID,
			ConversationID: conversationID,
			Text:           "I am sad",
			Language:       "en",
		}).Return("I understand you are feeling down.", nil).Once()

		c, w := authedContext(http.MethodPost, "/v1/chat", dto.ChatRequest{
			ConversationID: conversationID.String(),
			MessageText:    "I am sad",
			Language:       "en",
		}, userID)
		handler.ChatHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.ChatResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "I understand you are feeling down.", resp.Response)
	})

	t.Run("Error_UnsupportedLanguage", func(t *testing.T) {
		handler, useCase := setupHandler(t)
		c, w := authedContext(http.MethodPost, "/v1/chat", dto.ChatRequest{
			ConversationID: uuid.Must(uuid.NewV7()).String(),
			MessageText:    "bonjour",
			Language:       "fr",
		}, uuid.Must(uuid.NewV7()))

		handler.ChatHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		useCase.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
	})
}

func TestConversationHandler_DeleteMyDataHandler(t *testing.T) {
	handler, useCase := setupHandler(t)
	userID := uuid.Must(uuid.NewV7())
	useCase.On("DeleteAllForUser", mock.Anything, userID, mock.AnythingOfType("string")).Return(int64(3), nil).Once()

	c, w := authedContext(http.MethodDelete, "/v1/privacy/delete-my-data", nil, userID)
	handler.DeleteMyDataHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.DeleteDataResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.ConversationsDeleted)
}
