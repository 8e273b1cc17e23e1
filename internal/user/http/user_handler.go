// Package http provides the gin handlers for registration, login and token refresh.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/emoticare/internal/auth/http"
	apperrors "github.com/allisson/emoticare/internal/errors"
	"github.com/allisson/emoticare/internal/httputil"
	"github.com/allisson/emoticare/internal/user/http/dto"
	"github.com/allisson/emoticare/internal/user/usecase"
)

// UserHandler handles the /v1/auth endpoints.
type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUseCase usecase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// RegisterHandler creates an account.
// POST /v1/auth/register - Returns 201 Created with the account, 409 when the email is taken.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.Register(c.Request.Context(), usecase.RegisterInput{
		Email:         req.Email,
		Password:      req.Password,
		SourceAddress: c.ClientIP(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapUserToResponse(user))
}

// LoginHandler exchanges credentials for a token pair.
// POST /v1/auth/login - Returns 200 OK with tokens, 401 on bad credentials.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	pair, err := h.userUseCase.Login(c.Request.Context(), usecase.LoginInput{
		Email:         req.Email,
		Password:      req.Password,
		SourceAddress: c.ClientIP(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenPairToResponse(pair))
}

// RefreshHandler issues a new access token from a refresh token.
// POST /v1/auth/refresh - Returns 200 OK, 401 when the token is invalid or is an access token.
func (h *UserHandler) RefreshHandler(c *gin.Context) {
	var req dto.RefreshRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	pair, err := h.userUseCase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenPairToResponse(pair))
}

// LogoutHandler acknowledges a logout. Tokens are stateless and expire on their own.
// POST /v1/auth/logout - Returns 200 OK.
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// MeHandler returns the authenticated account.
// GET /v1/auth/me - Requires a bearer access token.
func (h *UserHandler) MeHandler(c *gin.Context) {
	userID, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	user, err := h.userUseCase.Get(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}
