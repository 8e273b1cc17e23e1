package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/emoticare/internal/audit/domain"
	auditUsecase "github.com/allisson/emoticare/internal/audit/usecase"
	authDomain "github.com/allisson/emoticare/internal/auth/domain"
	authService "github.com/allisson/emoticare/internal/auth/service"
	apperrors "github.com/allisson/emoticare/internal/errors"
	"github.com/allisson/emoticare/internal/user/domain"
)

type userUseCase struct {
	userRepo  UserRepository
	passwords authService.PasswordService
	tokens    authService.TokenService
	audit     auditUsecase.Recorder
}

// NewUserUseCase creates a UserUseCase.
func NewUserUseCase(
	userRepo UserRepository,
	passwords authService.PasswordService,
	tokens authService.TokenService,
	audit auditUsecase.Recorder,
) UserUseCase {
	return &userUseCase{
		userRepo:  userRepo,
		passwords: passwords,
		tokens:    tokens,
		audit:     audit,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register hashes the password and stores the account.
func (u *userUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	hash, err := u.passwords.Hash(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	user := &domain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Email:     normalizeEmail(input.Email),
		Password:  hash,
		CreatedAt: time.Now().UTC(),
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	u.audit.Record(ctx, auditDomain.ActionRegister, &user.ID, "", input.SourceAddress)
	return user, nil
}

// Login verifies the credentials and issues a token pair.
func (u *userUseCase) Login(ctx context.Context, input LoginInput) (*authDomain.TokenPair, error) {
	email := normalizeEmail(input.Email)

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil && !apperrors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if user == nil || !u.passwords.Compare(input.Password, user.Password) {
		u.audit.Record(ctx, auditDomain.ActionLoginFailed, nil, "email: "+email, input.SourceAddress)
		return nil, authDomain.ErrInvalidCredentials
	}

	pair, err := u.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue tokens")
	}

	u.audit.Record(ctx, auditDomain.ActionLogin, &user.ID, "", input.SourceAddress)
	return pair, nil
}

// Refresh verifies a refresh token and issues a new access token for the same user.
func (u *userUseCase) Refresh(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error) {
	principal, err := u.tokens.Verify(refreshToken, authDomain.RefreshToken)
	if err != nil {
		return nil, err
	}

	// The account may have been removed since the refresh token was issued.
	if _, err := u.userRepo.GetByID(ctx, principal.UserID); err != nil {
		if apperrors.Is(err, domain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}

	access, err := u.tokens.IssueAccess(principal.UserID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue access token")
	}

	return &authDomain.TokenPair{
		AccessToken: access,
		ExpiresIn:   u.tokens.AccessTTL(),
	}, nil
}

// Get returns the account by id.
func (u *userUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.userRepo.GetByID(ctx, id)
}
