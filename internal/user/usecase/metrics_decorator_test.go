package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/emoticare/internal/auth/domain"
	"github.com/allisson/emoticare/internal/user/domain"
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

type mockUserUseCase struct {
	mock.Mock
}

func (m *mockUserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserUseCase) Login(ctx context.Context, input LoginInput) (*authDomain.TokenPair, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.TokenPair), args.Error(1)
}

func (m *mockUserUseCase) Refresh(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.TokenPair), args.Error(1)
}

func (m *mockUserUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func TestUserUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Register", func(t *testing.T) {
		next := &mockUserUseCase{}
		m := &mockBusinessMetrics{}
		useCase := NewUserUseCaseWithMetrics(next, m)
		input := RegisterInput{Email: "ana@example.com"}
		user := &domain.User{ID: uuid.Must(uuid.NewV7())}

		next.On("Register", ctx, input).Return(user, nil).Once()
		m.On("RecordOperation", ctx, "user", "register", "success").Return().Once()
		m.On("RecordDuration", ctx, "user", "register", mock.AnythingOfType("time.Duration"), "success").Return().Once()

		got, err := useCase.Register(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, user, got)
		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("Error_Login", func(t *testing.T) {
		next := &mockUserUseCase{}
		m := &mockBusinessMetrics{}
		useCase := NewUserUseCaseWithMetrics(next, m)
		input := LoginInput{Email: "ana@example.com"}

		next.On("Login", ctx, input).Return(nil, errors.New("nope")).Once()
		m.On("RecordOperation", ctx, "user", "login", "error").Return().Once()
		m.On("RecordDuration", ctx, "user", "login", mock.AnythingOfType("time.Duration"), "error").Return().Once()

		_, err := useCase.Login(ctx, input)

		assert.Error(t, err)
		m.AssertExpectations(t)
	})
}
