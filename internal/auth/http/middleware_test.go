package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/emoticare/internal/auth/domain"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"BEARER  abc ", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		token, ok := BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestAuthenticationMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.Must(uuid.NewV7())

	newRouter := func(authenticator Authenticator) *gin.Engine {
		router := gin.New()
		router.Use(AuthenticationMiddleware(authenticator, testLogger()))
		router.GET("/me", func(c *gin.Context) {
			principal, ok := GetPrincipal(c.Request.Context())
			if !ok {
				c.Status(http.StatusTeapot)
				return
			}
			c.String(http.StatusOK, principal.String())
		})
		return router
	}

	t.Run("Success_ValidToken", func(t *testing.T) {
		authenticator := &mockAuthenticator{}
		authenticator.On("Authenticate", mock.Anything, "good").Return(userID, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		newRouter(authenticator).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String(), w.Body.String())
		authenticator.AssertExpectations(t)
	})

	t.Run("Error_MissingHeader", func(t *testing.T) {
		authenticator := &mockAuthenticator{}

		w := httptest.NewRecorder()
		newRouter(authenticator).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		authenticator.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidToken", func(t *testing.T) {
		authenticator := &mockAuthenticator{}
		authenticator.On("Authenticate", mock.Anything, "bad").Return(uuid.Nil, authDomain.ErrInvalidToken)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer bad")
		newRouter(authenticator).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
