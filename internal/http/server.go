// Package http wires the REST and websocket handlers into a gin router and runs the API and
// metrics servers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/emoticare/internal/auth/http"
	"github.com/allisson/emoticare/internal/config"
	conversationHTTP "github.com/allisson/emoticare/internal/conversation/http"
	"github.com/allisson/emoticare/internal/metrics"
	"github.com/allisson/emoticare/internal/ratelimit"
	"github.com/allisson/emoticare/internal/stream"
	userHTTP "github.com/allisson/emoticare/internal/user/http"
)

const streamRoute = "/v1/stream"

// Server is the public API server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	hub    *stream.Hub
	logger *slog.Logger
}

// NewServer creates a Server. SetupRouter must be called before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadHeaderTimeout: 15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Routes groups the handlers and middleware dependencies the router needs.
type Routes struct {
	Users            *userHTTP.UserHandler
	Conversations    *conversationHTTP.ConversationHandler
	Stream           *stream.Handler
	Hub              *stream.Hub
	Authenticator    authHTTP.Authenticator
	PrincipalLimiter *ratelimit.Store[uuid.UUID]
	IPLimiter        *ratelimit.Store[string]
	MetricsProvider  *metrics.Provider
}

// SetupRouter builds the gin engine. Limiters and the metrics provider may be nil.
func (s *Server) SetupRouter(cfg *config.Config, routes Routes) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if routes.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			routes.MetricsProvider.MeterProvider(),
			cfg.MetricsNamespace,
			streamRoute,
		))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	requireAuth := authHTTP.AuthenticationMiddleware(routes.Authenticator, s.logger)
	authenticated := []gin.HandlerFunc{requireAuth}
	if routes.PrincipalLimiter != nil {
		authenticated = append(authenticated, authHTTP.RateLimitMiddleware(routes.PrincipalLimiter, s.logger))
	}

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	{
		public := auth.Group("")
		if routes.IPLimiter != nil {
			public.Use(authHTTP.IPRateLimitMiddleware(routes.IPLimiter, s.logger))
		}
		public.POST("/register", routes.Users.RegisterHandler)
		public.POST("/login", routes.Users.LoginHandler)
		public.POST("/refresh", routes.Users.RefreshHandler)

		private := auth.Group("", authenticated...)
		private.POST("/logout", routes.Users.LogoutHandler)
		private.GET("/me", routes.Users.MeHandler)
	}

	conversations := v1.Group("/conversations", authenticated...)
	{
		conversations.POST("", routes.Conversations.CreateHandler)
		conversations.GET("", routes.Conversations.ListHandler)
		conversations.GET("/:id/messages", routes.Conversations.MessagesHandler)
	}

	private := v1.Group("", authenticated...)
	{
		private.POST("/chat", routes.Conversations.ChatHandler)
		private.DELETE("/privacy/delete-my-data", routes.Conversations.DeleteMyDataHandler)
	}

	// The stream authenticates every event itself.
	v1.GET("/stream", routes.Stream.StreamHandler)

	s.router = router
	s.hub = routes.Hub
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// GetHandler returns the configured router, or nil before SetupRouter.
func (s *Server) GetHandler() http.Handler {
	if s.router == nil {
		return nil
	}
	return s.router
}

// Shutdown stops accepting requests, closes every stream connection and waits for in-flight
// requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if s.hub != nil {
		s.hub.CloseAll()
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
