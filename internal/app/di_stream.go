package app

import (
	"fmt"

	"github.com/allisson/emoticare/internal/stream"
)

// Hub returns the websocket room registry.
func (c *Container) Hub() *stream.Hub {
	c.hubInit.Do(func() {
		c.hub = stream.NewHub()
	})
	return c.hub
}

// StreamService returns the websocket event dispatcher.
func (c *Container) StreamService() (*stream.Service, error) {
	var err error
	c.streamServiceInit.Do(func() {
		c.streamService, err = c.initStreamService()
		if err != nil {
			c.initErrors["streamService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["streamService"]; exists {
		return nil, storedErr
	}
	return c.streamService, nil
}

// StreamHandler returns the GET /v1/stream handler.
func (c *Container) StreamHandler() (*stream.Handler, error) {
	service, err := c.StreamService()
	if err != nil {
		return nil, err
	}
	return stream.NewHandler(service, c.streamOptions(), c.config.StreamAllowedOrigins, c.Logger()), nil
}

func (c *Container) streamOptions() stream.Options {
	opts := stream.DefaultOptions()
	if c.config.StreamSendBuffer > 0 {
		opts.SendBuffer = c.config.StreamSendBuffer
	}
	if c.config.StreamWriteTimeout > 0 {
		opts.WriteTimeout = c.config.StreamWriteTimeout
	}
	if c.config.StreamPongTimeout > 0 {
		opts.PongTimeout = c.config.StreamPongTimeout
	}
	if c.config.StreamMaxMessageBytes > 0 {
		opts.MaxMessageBytes = c.config.StreamMaxMessageBytes
	}
	return opts
}

func (c *Container) initStreamService() (*stream.Service, error) {
	gate, err := c.SessionGate()
	if err != nil {
		return nil, fmt.Errorf("failed to get session gate for stream: %w", err)
	}
	messages, err := c.ConversationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation use case for stream: %w", err)
	}
	generator, err := c.Generator()
	if err != nil {
		return nil, err
	}
	recorder, err := c.AuditRecorder()
	if err != nil {
		return nil, err
	}
	streamMetrics, err := c.StreamMetrics()
	if err != nil {
		return nil, err
	}

	return stream.NewService(
		gate,
		messages,
		generator,
		recorder,
		c.Hub(),
		c.PrincipalLimiter(),
		streamMetrics,
		c.Logger(),
	), nil
}
