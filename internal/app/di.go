// Package app provides the dependency injection container that assembles the application.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"

	auditUseCase "github.com/allisson/emoticare/internal/audit/usecase"
	authService "github.com/allisson/emoticare/internal/auth/service"
	authUseCase "github.com/allisson/emoticare/internal/auth/usecase"
	"github.com/allisson/emoticare/internal/config"
	conversationUseCase "github.com/allisson/emoticare/internal/conversation/usecase"
	cryptoService "github.com/allisson/emoticare/internal/crypto/service"
	"github.com/allisson/emoticare/internal/database"
	generationService "github.com/allisson/emoticare/internal/generation/service"
	"github.com/allisson/emoticare/internal/http"
	"github.com/allisson/emoticare/internal/metrics"
	"github.com/allisson/emoticare/internal/ratelimit"
	"github.com/allisson/emoticare/internal/stream"
	userUseCase "github.com/allisson/emoticare/internal/user/usecase"
)

// Container holds all application dependencies. Components are created on first access.
type Container struct {
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	streamMetrics   metrics.StreamMetrics

	// Crypto
	kmsService cryptoService.KMSService
	keyVault   *cryptoService.KeyVault
	encryptor  cryptoService.EnvelopeEncryptor

	// Audit
	auditRepository auditUseCase.AuditEventRepository
	auditRecorder   *auditUseCase.AsyncRecorder
	auditUseCase    auditUseCase.AuditEventUseCase

	// Auth and users
	passwordService  authService.PasswordService
	tokenService     authService.TokenService
	sessionGate      authUseCase.SessionGate
	userRepository   userUseCase.UserRepository
	userUseCase      userUseCase.UserUseCase
	principalLimiter *ratelimit.Store[uuid.UUID]
	ipLimiter        *ratelimit.Store[string]

	// Conversations
	conversationRepository conversationUseCase.ConversationRepository
	messageRepository      conversationUseCase.MessageRepository
	generator              generationService.Generator
	conversationUseCase    conversationUseCase.ConversationUseCase

	// Stream
	hub           *stream.Hub
	streamService *stream.Service

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                         sync.Mutex
	loggerInit                 sync.Once
	dbInit                     sync.Once
	txManagerInit              sync.Once
	metricsProviderInit        sync.Once
	businessMetricsInit        sync.Once
	streamMetricsInit          sync.Once
	kmsServiceInit             sync.Once
	keyVaultInit               sync.Once
	encryptorInit              sync.Once
	auditRepositoryInit        sync.Once
	auditRecorderInit          sync.Once
	auditUseCaseInit           sync.Once
	passwordServiceInit        sync.Once
	tokenServiceInit           sync.Once
	sessionGateInit            sync.Once
	userRepositoryInit         sync.Once
	userUseCaseInit            sync.Once
	principalLimiterInit       sync.Once
	ipLimiterInit              sync.Once
	conversationRepositoryInit sync.Once
	messageRepositoryInit      sync.Once
	generatorInit              sync.Once
	conversationUseCaseInit    sync.Once
	hubInit                    sync.Once
	streamServiceInit          sync.Once
	httpServerInit             sync.Once
	metricsServerInit          sync.Once
	initErrors                 map[string]error
}

// NewContainer creates a container for cfg.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger configured with LOG_LEVEL.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the use case metrics, a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// StreamMetrics returns the websocket metrics, a no-op when metrics are disabled.
func (c *Container) StreamMetrics() (metrics.StreamMetrics, error) {
	var err error
	c.streamMetricsInit.Do(func() {
		c.streamMetrics, err = c.initStreamMetrics()
		if err != nil {
			c.initErrors["streamMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["streamMetrics"]; exists {
		return nil, storedErr
	}
	return c.streamMetrics, nil
}

// HTTPServer returns the public API server with its router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown releases every initialized resource. Servers stop first so no request can
// enqueue audit events after the recorder drains, and the database closes last.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.auditRecorder != nil {
		c.auditRecorder.Close()
	}

	if c.keyVault != nil {
		c.keyVault.Close()
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}
	return nil
}

func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}

func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(context.Background(), database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

func (c *Container) initStreamMetrics() (metrics.StreamMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpStreamMetrics(), nil
	}
	return metrics.NewStreamMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	users, err := c.UserHandler()
	if err != nil {
		return nil, err
	}
	conversations, err := c.ConversationHandler()
	if err != nil {
		return nil, err
	}
	streamHandler, err := c.StreamHandler()
	if err != nil {
		return nil, err
	}
	gate, err := c.SessionGate()
	if err != nil {
		return nil, err
	}
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(c.config, http.Routes{
		Users:            users,
		Conversations:    conversations,
		Stream:           streamHandler,
		Hub:              c.Hub(),
		Authenticator:    gate,
		PrincipalLimiter: c.PrincipalLimiter(),
		IPLimiter:        c.IPLimiter(),
		MetricsProvider:  provider,
	})
	return server, nil
}

func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
