package app

import (
	"context"
	"fmt"

	conversationHTTP "github.com/allisson/emoticare/internal/conversation/http"
	conversationRepository "github.com/allisson/emoticare/internal/conversation/repository"
	conversationUseCase "github.com/allisson/emoticare/internal/conversation/usecase"
	generationService "github.com/allisson/emoticare/internal/generation/service"
)

// Supported LLM_PROVIDER values.
const (
	providerGemini   = "gemini"
	providerFallback = "fallback"
)

// ConversationRepository returns the conversation repository for the configured driver.
func (c *Container) ConversationRepository() (conversationUseCase.ConversationRepository, error) {
	var err error
	c.conversationRepositoryInit.Do(func() {
		c.conversationRepository, err = c.initConversationRepository()
		if err != nil {
			c.initErrors["conversationRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["conversationRepository"]; exists {
		return nil, storedErr
	}
	return c.conversationRepository, nil
}

// MessageRepository returns the message repository for the configured driver.
func (c *Container) MessageRepository() (conversationUseCase.MessageRepository, error) {
	var err error
	c.messageRepositoryInit.Do(func() {
		c.messageRepository, err = c.initMessageRepository()
		if err != nil {
			c.initErrors["messageRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["messageRepository"]; exists {
		return nil, storedErr
	}
	return c.messageRepository, nil
}

// Generator returns the reply generator selected by LLM_PROVIDER, wrapped so that upstream
// failures and timeouts become fallback replies.
func (c *Container) Generator() (generationService.Generator, error) {
	var err error
	c.generatorInit.Do(func() {
		c.generator, err = c.initGenerator()
		if err != nil {
			c.initErrors["generator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["generator"]; exists {
		return nil, storedErr
	}
	return c.generator, nil
}

// ConversationUseCase returns the conversation use case.
func (c *Container) ConversationUseCase() (conversationUseCase.ConversationUseCase, error) {
	var err error
	c.conversationUseCaseInit.Do(func() {
		c.conversationUseCase, err = c.initConversationUseCase()
		if err != nil {
			c.initErrors["conversationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["conversationUseCase"]; exists {
		return nil, storedErr
	}
	return c.conversationUseCase, nil
}

// ConversationHandler returns the conversation, chat and privacy handlers.
func (c *Container) ConversationHandler() (*conversationHTTP.ConversationHandler, error) {
	useCase, err := c.ConversationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation use case for handler: %w", err)
	}
	return conversationHTTP.NewConversationHandler(useCase, c.Logger()), nil
}

func (c *Container) initConversationRepository() (conversationUseCase.ConversationRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for conversation repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return conversationRepository.NewMySQLConversationRepository(db), nil
	case "postgres":
		return conversationRepository.NewPostgreSQLConversationRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initMessageRepository() (conversationUseCase.MessageRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for message repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return conversationRepository.NewMySQLMessageRepository(db), nil
	case "postgres":
		return conversationRepository.NewPostgreSQLMessageRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initGenerator() (generationService.Generator, error) {
	var next generationService.Generator

	switch c.config.LLMProvider {
	case providerGemini:
		client, err := generationService.NewGeminiClient(context.Background(), c.config.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		next = generationService.NewGeminiGenerator(
			client.Models,
			c.config.GeminiModel,
			float32(c.config.GeminiTemperature),
		)
	case providerFallback:
		c.Logger().Warn("LLM_PROVIDER is fallback, every reply will be the canned message")
		next = generationService.NewFallbackGenerator()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", c.config.LLMProvider)
	}

	return generationService.NewResilientGenerator(next, c.config.GenerationTimeout, c.Logger()), nil
}

func (c *Container) initConversationUseCase() (conversationUseCase.ConversationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for conversation use case: %w", err)
	}
	conversations, err := c.ConversationRepository()
	if err != nil {
		return nil, err
	}
	messages, err := c.MessageRepository()
	if err != nil {
		return nil, err
	}
	encryptor, err := c.EnvelopeEncryptor()
	if err != nil {
		return nil, err
	}
	generator, err := c.Generator()
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

	useCase := conversationUseCase.NewConversationUseCase(
		txManager,
		conversations,
		messages,
		encryptor,
		generator,
		recorder,
	)
	if c.config.MetricsEnabled {
		useCase = conversationUseCase.NewConversationUseCaseWithMetrics(useCase, businessMetrics)
	}
	return useCase, nil
}
