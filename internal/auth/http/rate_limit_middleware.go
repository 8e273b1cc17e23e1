package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/emoticare/internal/errors"
	"github.com/allisson/emoticare/internal/httputil"
	"github.com/allisson/emoticare/internal/ratelimit"
)

// RateLimitMiddleware enforces per-principal rate limiting on authenticated requests.
// It must run after AuthenticationMiddleware.
func RateLimitMiddleware(store *ratelimit.Store[uuid.UUID], logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetPrincipal(c.Request.Context())
		if !ok {
			logger.Error("rate limit middleware: no authenticated principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if allowed, retryAfter := store.Allow(userID); !allowed {
			logger.Debug("rate limit exceeded",
				slog.String("user_id", userID.String()),
				slog.Int("retry_after", retryAfter))
			httputil.HandleTooManyRequestsGin(c, retryAfter)
			c.Abort()
			return
		}

		c.Next()
	}
}

// IPRateLimitMiddleware enforces per-IP rate limiting on unauthenticated endpoints such as
// register and login. c.ClientIP honours X-Forwarded-For and X-Real-IP from trusted proxies.
func IPRateLimitMiddleware(store *ratelimit.Store[string], logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if allowed, retryAfter := store.Allow(clientIP); !allowed {
			logger.Debug("ip rate limit exceeded",
				slog.String("client_ip", clientIP),
				slog.Int("retry_after", retryAfter))
			httputil.HandleTooManyRequestsGin(c, retryAfter)
			c.Abort()
			return
		}

		c.Next()
	}
}
