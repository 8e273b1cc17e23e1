package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/emoticare/internal/conversation/domain"
	"github.com/allisson/emoticare/internal/metrics"
)

// conversationUseCaseWithMetrics decorates ConversationUseCase with metrics instrumentation.
type conversationUseCaseWithMetrics struct {
	next    ConversationUseCase
	metrics metrics.BusinessMetrics
}

// NewConversationUseCaseWithMetrics wraps a ConversationUseCase with metrics recording.
func NewConversationUseCaseWithMetrics(useCase ConversationUseCase, m metrics.BusinessMetrics) ConversationUseCase {
	return &conversationUseCaseWithMetrics{next: useCase, metrics: m}
}

func (c *conversationUseCaseWithMetrics) Create(ctx context.Context, userID uuid.UUID) (*domain.Conversation, error) {
	start := time.Now()
	conversation, err := c.next.Create(ctx, userID)
	c.record(ctx, "create", start, err)
	return conversation, err
}

func (c *conversationUseCaseWithMetrics) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Conversation, error) {
	start := time.Now()
	conversations, err := c.next.List(ctx, userID, offset, limit)
	c.record(ctx, "list", start, err)
	return conversations, err
}

func (c *conversationUseCaseWithMetrics) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	start := time.Now()
	conversation, err := c.next.GetByID(ctx, id)
	c.record(ctx, "get", start, err)
	return conversation, err
}

func (c *conversationUseCaseWithMetrics) GetOwned(
	ctx context.Context,
	userID, id uuid.UUID,
) (*domain.Conversation, error) {
	start := time.Now()
	conversation, err := c.next.GetOwned(ctx, userID, id)
	c.record(ctx, "get_owned", start, err)
	return conversation, err
}

func (c *conversationUseCaseWithMetrics) AppendMessage(
	ctx context.Context,
	conversationID uuid.UUID,
	role domain.Role,
	language, text string,
) (*domain.Message, error) {
	start := time.Now()
	message, err := c.next.AppendMessage(ctx, conversationID, role, language, text)
	c.record(ctx, "append_message", start, err)
	return message, err
}

func (c *conversationUseCaseWithMetrics) History(
	ctx context.Context,
	userID, conversationID uuid.UUID,
) ([]*domain.DecryptedMessage, error) {
	start := time.Now()
	history, err := c.next.History(ctx, userID, conversationID)
	c.record(ctx, "history", start, err)
	return history, err
}

func (c *conversationUseCaseWithMetrics) Chat(ctx context.Context, input ChatInput) (string, error) {
	start := time.Now()
	reply, err := c.next.Chat(ctx, input)
	c.record(ctx, "chat", start, err)
	return reply, err
}

func (c *conversationUseCaseWithMetrics) DeleteAllForUser(
	ctx context.Context,
	userID uuid.UUID,
	sourceAddress string,
) (int64, error) {
	start := time.Now()
	count, err := c.next.DeleteAllForUser(ctx, userID, sourceAddress)
	c.record(ctx, "delete_all", start, err)
	return count, err
}

func (c *conversationUseCaseWithMetrics) DeleteExpiredMessages(
	ctx context.Context,
	days int,
	dryRun bool,
) (int64, error) {
	start := time.Now()
	count, err := c.next.DeleteExpiredMessages(ctx, days, dryRun)
	c.record(ctx, "delete_expired", start, err)
	return count, err
}

func (c *conversationUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordOperation(ctx, "conversation", operation, status)
	c.metrics.RecordDuration(ctx, "conversation", operation, time.Since(start), status)
}
