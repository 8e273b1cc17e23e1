package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/emoticare/internal/auth/domain"
	conversationDomain "github.com/allisson/emoticare/internal/conversation/domain"
)

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

type mockSessionGate struct {
	mock.Mock
}

func (m *mockSessionGate) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockSessionGate) AuthorizeJoin(
	ctx context.Context,
	principal, conversationID uuid.UUID,
) (*conversationDomain.Conversation, error) {
	args := m.Called(ctx, principal, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*conversationDomain.Conversation), args.Error(1)
}

func TestSessionGateWithMetrics(t *testing.T) {
	ctx := context.Background()
	principal := uuid.Must(uuid.NewV7())

	t.Run("Authenticate success", func(t *testing.T) {
		next := &mockSessionGate{}
		m := &mockBusinessMetrics{}
		gate := NewSessionGateWithMetrics(next, m)

		next.On("Authenticate", ctx, "tok").Return(principal, nil).Once()
		m.On("RecordOperation", ctx, "auth", "authenticate", "success").Return().Once()
		m.On("RecordDuration", ctx, "auth", "authenticate", mock.AnythingOfType("time.Duration"), "success").Return().Once()

		got, err := gate.Authenticate(ctx, "tok")
		assert.NoError(t, err)
		assert.Equal(t, principal, got)
		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("AuthorizeJoin error", func(t *testing.T) {
		next := &mockSessionGate{}
		m := &mockBusinessMetrics{}
		gate := NewSessionGateWithMetrics(next, m)
		conversationID := uuid.Must(uuid.NewV7())

		next.On("AuthorizeJoin", ctx, principal, conversationID).
			Return(nil, authDomain.ErrConversationAccessDenied).Once()
		m.On("RecordOperation", ctx, "auth", "authorize_join", "error").Return().Once()
		m.On("RecordDuration", ctx, "auth", "authorize_join", mock.AnythingOfType("time.Duration"), "error").Return().Once()

		_, err := gate.AuthorizeJoin(ctx, principal, conversationID)
		assert.ErrorIs(t, err, authDomain.ErrConversationAccessDenied)
		m.AssertExpectations(t)
	})
}
