package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	auditDomain "github.com/allisson/emoticare/internal/audit/domain"
	auditUsecase "github.com/allisson/emoticare/internal/audit/usecase"
	"github.com/allisson/emoticare/internal/conversation/domain"
	cryptoService "github.com/allisson/emoticare/internal/crypto/service"
	"github.com/allisson/emoticare/internal/database"
	apperrors "github.com/allisson/emoticare/internal/errors"
	generationDomain "github.com/allisson/emoticare/internal/generation/domain"
	generationService "github.com/allisson/emoticare/internal/generation/service"
)

type conversationUseCase struct {
	txManager     database.TxManager
	conversations ConversationRepository
	messages      MessageRepository
	encryptor     cryptoService.EnvelopeEncryptor
	generator     generationService.Generator
	audit         auditUsecase.Recorder
}

// NewConversationUseCase creates a ConversationUseCase.
func NewConversationUseCase(
	txManager database.TxManager,
	conversations ConversationRepository,
	messages MessageRepository,
	encryptor cryptoService.EnvelopeEncryptor,
	generator generationService.Generator,
	audit auditUsecase.Recorder,
) ConversationUseCase {
	return &conversationUseCase{
		txManager:     txManager,
		conversations: conversations,
		messages:      messages,
		encryptor:     encryptor,
		generator:     generator,
		audit:         audit,
	}
}

func (c *conversationUseCase) Create(ctx context.Context, userID uuid.UUID) (*domain.Conversation, error) {
	conversation := &domain.Conversation{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := c.conversations.Create(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (c *conversationUseCase) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Conversation, error) {
	return c.conversations.ListByUser(ctx, userID, offset, limit)
}

func (c *conversationUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	return c.conversations.GetByID(ctx, id)
}

func (c *conversationUseCase) GetOwned(ctx context.Context, userID, id uuid.UUID) (*domain.Conversation, error) {
	conversation, err := c.conversations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conversation.OwnedBy(userID) {
		return nil, domain.ErrConversationNotFound
	}
	return conversation, nil
}

func (c *conversationUseCase) AppendMessage(
	ctx context.Context,
	conversationID uuid.UUID,
	role domain.Role,
	language, text string,
) (*domain.Message, error) {
	envelope, ok, err := c.encryptor.Encrypt(text)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt message")
	}
	if !ok {
		return nil, domain.ErrEmptyMessage
	}

	message := &domain.Message{
		ID:             uuid.Must(uuid.NewV7()),
		ConversationID: conversationID,
		Role:           role,
		Language:       language,
		Envelope:       envelope,
		CreatedAt:      time.Now().UTC(),
	}
	if err := c.messages.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (c *conversationUseCase) History(
	ctx context.Context,
	userID, conversationID uuid.UUID,
) ([]*domain.DecryptedMessage, error) {
	if _, err := c.GetOwned(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	messages, err := c.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	return lo.Map(messages, func(m *domain.Message, _ int) *domain.DecryptedMessage {
		result := c.encryptor.Decrypt(m.Envelope)
		return &domain.DecryptedMessage{
			Role:      m.Role,
			Content:   result.String(),
			Language:  m.Language,
			CreatedAt: m.CreatedAt,
			Decrypted: result.Ok(),
		}
	}), nil
}

func (c *conversationUseCase) Chat(ctx context.Context, input ChatInput) (string, error) {
	if _, err := c.GetOwned(ctx, input.UserID, input.ConversationID); err != nil {
		return "", err
	}

	language := generationDomain.ResolveLanguage(input.Language, input.Text)
	tag := generationDomain.MessageLanguage(input.Language, language)

	if _, err := c.AppendMessage(ctx, input.ConversationID, domain.RoleUser, tag, input.Text); err != nil {
		return "", err
	}

	reply, err := c.generator.Reply(ctx, input.Text, language)
	if err != nil || reply == "" {
		reply = generationDomain.FallbackReply(language)
	}

	if _, err := c.AppendMessage(ctx, input.ConversationID, domain.RoleAssistant, tag, reply); err != nil {
		return "", err
	}
	return reply, nil
}

func (c *conversationUseCase) DeleteAllForUser(
	ctx context.Context,
	userID uuid.UUID,
	sourceAddress string,
) (int64, error) {
	var deleted int64
	err := c.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := c.messages.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		n, err := c.conversations.DeleteByUser(ctx, userID)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	c.audit.Record(ctx, auditDomain.ActionDeleteData, &userID, "user requested full data deletion", sourceAddress)
	return deleted, nil
}

func (c *conversationUseCase) DeleteExpiredMessages(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must be greater than or equal to 0")
	}
	olderThan := time.Now().UTC().AddDate(0, 0, -days)
	return c.messages.DeleteOlderThan(ctx, olderThan, dryRun)
}
