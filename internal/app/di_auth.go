package app

import (
	"fmt"

	"github.com/google/uuid"

	authService "github.com/allisson/emoticare/internal/auth/service"
	authUseCase "github.com/allisson/emoticare/internal/auth/usecase"
	"github.com/allisson/emoticare/internal/ratelimit"
	userHTTP "github.com/allisson/emoticare/internal/user/http"
	userRepository "github.com/allisson/emoticare/internal/user/repository"
	userUseCase "github.com/allisson/emoticare/internal/user/usecase"
)

// PasswordService returns the Argon2id password hasher.
func (c *Container) PasswordService() (authService.PasswordService, error) {
	var err error
	c.passwordServiceInit.Do(func() {
		c.passwordService, err = authService.NewPasswordService()
		if err != nil {
			c.initErrors["passwordService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["passwordService"]; exists {
		return nil, storedErr
	}
	return c.passwordService, nil
}

// TokenService returns the JWT issuer and verifier. JWT_SECRET_KEY must be set.
func (c *Container) TokenService() (authService.TokenService, error) {
	var err error
	c.tokenServiceInit.Do(func() {
		c.tokenService, err = authService.NewTokenService(
			c.config.JWTSecretKey,
			c.config.JWTIssuer,
			c.config.AccessTokenExpiration,
			c.config.RefreshTokenExpiration,
		)
		if err != nil {
			err = fmt.Errorf("failed to create token service: %w", err)
			c.initErrors["tokenService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// SessionGate returns the gate that authenticates tokens and authorizes conversation access.
func (c *Container) SessionGate() (authUseCase.SessionGate, error) {
	var err error
	c.sessionGateInit.Do(func() {
		c.sessionGate, err = c.initSessionGate()
		if err != nil {
			c.initErrors["sessionGate"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionGate"]; exists {
		return nil, storedErr
	}
	return c.sessionGate, nil
}

// UserRepository returns the user repository for the configured driver.
func (c *Container) UserRepository() (userUseCase.UserRepository, error) {
	var err error
	c.userRepositoryInit.Do(func() {
		c.userRepository, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepository"]; exists {
		return nil, storedErr
	}
	return c.userRepository, nil
}

// UserUseCase returns the registration and login use case.
func (c *Container) UserUseCase() (userUseCase.UserUseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// UserHandler returns the /v1/auth handlers.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	useCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for handler: %w", err)
	}
	return userHTTP.NewUserHandler(useCase, c.Logger()), nil
}

// PrincipalLimiter returns the per-user limiter shared by REST and the stream, or nil when
// RATE_LIMIT_ENABLED is false.
func (c *Container) PrincipalLimiter() *ratelimit.Store[uuid.UUID] {
	c.principalLimiterInit.Do(func() {
		if c.config.RateLimitEnabled {
			c.principalLimiter = ratelimit.NewStore[uuid.UUID](
				c.config.RateLimitRequestsPerSec,
				c.config.RateLimitBurst,
			)
		}
	})
	return c.principalLimiter
}

// IPLimiter returns the per-address limiter for register and login, or nil when
// RATE_LIMIT_AUTH_ENABLED is false.
func (c *Container) IPLimiter() *ratelimit.Store[string] {
	c.ipLimiterInit.Do(func() {
		if c.config.RateLimitAuthEnabled {
			c.ipLimiter = ratelimit.NewStore[string](
				c.config.RateLimitAuthRequestsPerSec,
				c.config.RateLimitAuthBurst,
			)
		}
	})
	return c.ipLimiter
}

func (c *Container) initSessionGate() (authUseCase.SessionGate, error) {
	tokens, err := c.TokenService()
	if err != nil {
		return nil, err
	}
	conversations, err := c.ConversationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation repository for session gate: %w", err)
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	gate := authUseCase.NewSessionGate(tokens, conversations)
	if c.config.MetricsEnabled {
		gate = authUseCase.NewSessionGateWithMetrics(gate, businessMetrics)
	}
	return gate, nil
}

func (c *Container) initUserRepository() (userUseCase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLUserRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initUserUseCase() (userUseCase.UserUseCase, error) {
	repo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}
	passwords, err := c.PasswordService()
	if err != nil {
		return nil, fmt.Errorf("failed to get password service for user use case: %w", err)
	}
	tokens, err := c.TokenService()
	if err != nil {
		return nil, err
	}
	recorder, err := c.AuditRecorder()
	if err != nil {
		return nil, err
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := userUseCase.NewUserUseCase(repo, passwords, tokens, recorder)
	if c.config.MetricsEnabled {
		useCase = userUseCase.NewUserUseCaseWithMetrics(useCase, businessMetrics)
	}
	return useCase, nil
}
