package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/emoticare/internal/auth/domain"
	apperrors "github.com/allisson/emoticare/internal/errors"
)

// claims is the JWT payload: registered claims plus the token type.
type claims struct {
	Type authDomain.TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// tokenService implements TokenService with HS256-signed JWTs.
type tokenService struct {
	key        []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// IssuePair creates an access token and a refresh token for userID.
func (t *tokenService) IssuePair(userID uuid.UUID) (*authDomain.TokenPair, error) {
	access, err := t.sign(userID, authDomain.AccessToken, t.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := t.sign(userID, authDomain.RefreshToken, t.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &authDomain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    t.accessTTL,
	}, nil
}

// IssueAccess creates an access token for userID.
func (t *tokenService) IssueAccess(userID uuid.UUID) (string, error) {
	return t.sign(userID, authDomain.AccessToken, t.accessTTL)
}

// AccessTTL returns the lifetime of access tokens.
func (t *tokenService) AccessTTL() time.Duration {
	return t.accessTTL
}

func (t *tokenService) sign(userID uuid.UUID, typ authDomain.TokenType, ttl time.Duration) (string, error) {
	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// Verify parses token and checks signature, issuer, expiry and type.
func (t *tokenService) Verify(token string, expected authDomain.TokenType) (*authDomain.Principal, error) {
	if token == "" {
		return nil, authDomain.ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(
		token,
		&claims{},
		func(*jwt.Token) (any, error) { return t.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, errors.Join(authDomain.ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.Type != expected {
		return nil, authDomain.ErrInvalidToken
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, authDomain.ErrInvalidToken
	}

	return &authDomain.Principal{UserID: userID, ExpiresAt: c.ExpiresAt.Time}, nil
}

// NewTokenService creates a TokenService signing with secretKey.
func NewTokenService(secretKey, issuer string, accessTTL, refreshTTL time.Duration) (TokenService, error) {
	if secretKey == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "jwt secret key is required")
	}
	return &tokenService{
		key:        []byte(secretKey),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}
